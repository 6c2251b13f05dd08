package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/google/uuid"
)

const (
	dequeueTimeout   = 5 * time.Second
	dequeueBackoff   = time.Second
	renderedVideoDir = "videos"
)

type RenderJobsDeps struct {
	Queue     outbound.JobQueuePort
	Statuses  outbound.JobStatusPort
	Pipeline  inbound.VideoPipelinePort
	Publisher inbound.RenderPublisherPort
}

type renderJobs struct {
	logger         outbound.LoggerPort
	workerPool     outbound.TaskDispatcher
	deps           RenderJobsDeps
	pipelineConfig *config.PipelineConfig
}

func NewRenderJobs(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher, deps RenderJobsDeps, pipelineConfig *config.PipelineConfig) inbound.RenderJobsPort {
	return &renderJobs{
		logger:         logger,
		workerPool:     workerPool,
		deps:           deps,
		pipelineConfig: pipelineConfig,
	}
}

func (r *renderJobs) Submit(ctx context.Context, params inbound.SubmitJobParams) (string, error) {
	if strings.TrimSpace(params.ScriptText) == "" {
		return "", domain.ErrEmptyInput
	}

	job := domain.RenderJob{
		ID:         uuid.NewString(),
		ScriptText: params.ScriptText,
		Style:      params.Style,
		EnqueuedAt: time.Now().UTC(),
	}

	if err := r.deps.Statuses.SetStatus(ctx, domain.JobStatus{JobID: job.ID, State: domain.QueuedJobState}); err != nil {
		return "", err
	}
	if err := r.deps.Queue.Enqueue(ctx, job); err != nil {
		return "", err
	}

	r.logger.InfoWithFields("Render job queued", map[string]interface{}{
		"jobID": job.ID,
		"style": job.Style,
	})
	return job.ID, nil
}

func (r *renderJobs) Status(ctx context.Context, jobID string) (*domain.JobStatus, error) {
	return r.deps.Statuses.GetStatus(ctx, jobID)
}

// StartWorkers starts the job consumers on the worker pool. They stop when
// ctx is done.
func (r *renderJobs) StartWorkers(ctx context.Context, workers int) error {
	for i := 0; i < workers; i++ {
		logger := r.logger.With(map[string]interface{}{
			"worker": i,
		})
		if err := r.workerPool.Submit(func() {
			r.consume(ctx, logger)
		}); err != nil {
			return fmt.Errorf("failed to start render worker %d: %w", i, err)
		}
	}
	return nil
}

func (r *renderJobs) consume(ctx context.Context, logger outbound.LoggerPort) {
	logger.Info("Render worker started")
	for ctx.Err() == nil {
		job, err := r.deps.Queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error(err, "Failed to dequeue render job")
			sleepContext(ctx, dequeueBackoff)
			continue
		}
		if job == nil {
			continue
		}
		r.process(ctx, logger, *job)
	}
	logger.Info("Render worker stopped")
}

func (r *renderJobs) process(ctx context.Context, logger outbound.LoggerPort, job domain.RenderJob) {
	logger = logger.With(map[string]interface{}{
		"jobID": job.ID,
	})
	status := domain.JobStatus{
		JobID: job.ID,
		State: domain.RunningJobState,
	}
	r.setStatus(ctx, logger, status)

	result, err := r.deps.Pipeline.Run(ctx, inbound.PipelineRequest{
		Script:     job.ScriptText,
		OutputPath: filepath.Join(r.pipelineConfig.FilesDir, renderedVideoDir, job.ID+".mp4"),
		Style:      job.Style,
		Observer: func(stage domain.Stage) {
			status.Stage = stage
			r.setStatus(ctx, logger, status)
		},
	})
	if err != nil {
		logger.Error(err, "Render job failed")
		status.State = domain.FailedJobState
		status.Error = err.Error()
		r.setStatus(context.WithoutCancel(ctx), logger, status)
		return
	}

	status.State = domain.DoneJobState
	status.Stage = domain.StageDone
	status.VideoPath = result.OutputPath
	status.Kind = string(result.Kind)
	status.VideoURL = r.deps.Publisher.Publish(ctx, *result)
	r.setStatus(context.WithoutCancel(ctx), logger, status)

	logger.InfoWithFields("Render job finished", map[string]interface{}{
		"kind":      result.Kind,
		"videoPath": result.OutputPath,
	})
}

func (r *renderJobs) setStatus(ctx context.Context, logger outbound.LoggerPort, status domain.JobStatus) {
	if err := r.deps.Statuses.SetStatus(ctx, status); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorWithFields(err, "Failed to update job status", map[string]interface{}{
			"state": status.State,
			"stage": status.Stage,
		})
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
