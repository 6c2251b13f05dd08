package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type SubmitJobParams struct {
	ScriptText string
	Style      string
}

type RenderJobsPort interface {
	Submit(ctx context.Context, params SubmitJobParams) (string, error)
	Status(ctx context.Context, jobID string) (*domain.JobStatus, error)
	StartWorkers(ctx context.Context, workers int) error
}
