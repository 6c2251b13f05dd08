package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type RenderPublisherPort interface {
	// Publish returns the public video URL, or "" when nothing was uploaded.
	Publish(ctx context.Context, result domain.PipelineResult) string
}
