package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/go-redis/redis/v8"
)

const (
	RenderJobsQueue    = "render:jobs"
	jobStatusKeyPrefix = "render:job:"
	jobStatusTTL       = 24 * time.Hour
)

type redisJobQueue struct {
	logger outbound.LoggerPort
	rdb    *redis.Client
}

func NewRedisJobQueue(rdb *redis.Client, logger outbound.LoggerPort) outbound.JobQueuePort {
	return &redisJobQueue{
		logger: logger,
		rdb:    rdb,
	}
}

func (q *redisJobQueue) Enqueue(ctx context.Context, job domain.RenderJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, RenderJobsQueue, payload).Err(); err != nil {
		q.logger.ErrorWithFields(err, "Failed to enqueue render job", map[string]interface{}{
			"job_id": job.ID,
		})
		return err
	}
	return nil
}

func (q *redisJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.RenderJob, error) {
	result, err := q.rdb.BRPop(ctx, timeout, RenderJobsQueue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// result[0] is the queue name, result[1] is the payload
	var job domain.RenderJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.ErrorWithFields(err, "Dropping malformed render job", map[string]interface{}{
			"payload": result[1],
		})
		return nil, err
	}
	return &job, nil
}

type redisJobStatusStore struct {
	logger outbound.LoggerPort
	rdb    *redis.Client
}

func NewRedisJobStatusStore(rdb *redis.Client, logger outbound.LoggerPort) outbound.JobStatusPort {
	return &redisJobStatusStore{
		logger: logger,
		rdb:    rdb,
	}
}

func (s *redisJobStatusStore) SetStatus(ctx context.Context, status domain.JobStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, jobStatusKeyPrefix+status.JobID, payload, jobStatusTTL).Err(); err != nil {
		s.logger.ErrorWithFields(err, "Failed to store job status", map[string]interface{}{
			"job_id": status.JobID,
			"state":  status.State,
		})
		return err
	}
	return nil
}

func (s *redisJobStatusStore) GetStatus(ctx context.Context, jobID string) (*domain.JobStatus, error) {
	payload, err := s.rdb.Get(ctx, jobStatusKeyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var status domain.JobStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
