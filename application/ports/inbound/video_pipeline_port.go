package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type PipelineRequest struct {
	Script     string
	OutputPath string
	Style      string
	Observer   domain.StageObserver
}

// VideoPipelinePort returns an error only when even the fallback video could
// not be produced.
type VideoPipelinePort interface {
	Run(ctx context.Context, req PipelineRequest) (*domain.PipelineResult, error)
}
