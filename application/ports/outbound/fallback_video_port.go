package outbound

import "context"

// FallbackVideoPort renders a video from the raw script with no remote
// dependency.
type FallbackVideoPort interface {
	Create(ctx context.Context, script string, outputPath string) error
}
