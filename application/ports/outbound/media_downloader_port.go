package outbound

import "context"

type MediaDownloaderPort interface {
	Download(ctx context.Context, url string, destPath string) error
}
