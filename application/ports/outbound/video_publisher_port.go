package outbound

import "context"

type VideoPublisherPort interface {
	Publish(ctx context.Context, filePath string, key string) (string, error)
}
