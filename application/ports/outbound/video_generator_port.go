package outbound

import "context"

type VideoTaskStatus string

const (
	StartingVideoTaskStatus   VideoTaskStatus = "starting"
	ProcessingVideoTaskStatus VideoTaskStatus = "processing"
	SucceededVideoTaskStatus  VideoTaskStatus = "succeeded"
	FailedVideoTaskStatus     VideoTaskStatus = "failed"
	CanceledVideoTaskStatus   VideoTaskStatus = "canceled"
)

type VideoTask struct {
	ID        string
	Status    VideoTaskStatus
	OutputURL string
	Error     string
}

func (t VideoTask) Finished() bool {
	switch t.Status {
	case SucceededVideoTaskStatus, FailedVideoTaskStatus, CanceledVideoTaskStatus:
		return true
	}
	return false
}

type VideoGeneratorPort interface {
	CreateTask(ctx context.Context, model string, prompt string) (*VideoTask, error)
	GetTask(ctx context.Context, taskID string) (*VideoTask, error)
}
