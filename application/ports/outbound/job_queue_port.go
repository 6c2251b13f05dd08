package outbound

import (
	"context"
	"time"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type JobQueuePort interface {
	Enqueue(ctx context.Context, job domain.RenderJob) error
	// Dequeue blocks for at most timeout and returns nil when nothing arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (*domain.RenderJob, error)
}

type JobStatusPort interface {
	SetStatus(ctx context.Context, status domain.JobStatus) error
	GetStatus(ctx context.Context, jobID string) (*domain.JobStatus, error)
}
