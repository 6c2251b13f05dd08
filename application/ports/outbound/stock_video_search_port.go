package outbound

import "context"

type StockClip struct {
	URL      string
	Width    int
	Height   int
	Quality  string
	FileType string
	Duration int
}

type StockVideoSearchPort interface {
	Search(ctx context.Context, query string) ([]StockClip, error)
}
