package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/pkg/jobs"
)

const (
	weeklyCachePrefix   = "schedule:weekly:"
	weeklyCachePattern  = weeklyCachePrefix + "*"
	invalidateJobType   = "schedule.cache.invalidate"
	invalidateQueueName = "schedule-cache"
)

type patternInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ScheduleCacheInvalidator clears cached weekly reads after a schedule changes.
type ScheduleCacheInvalidator struct {
	cache  patternInvalidator
	queue  jobEnqueuer
	logger *zap.Logger
}

// NewScheduleCacheInvalidator constructs an invalidator. Without a queue it runs inline.
func NewScheduleCacheInvalidator(cache patternInvalidator, logger *zap.Logger) *ScheduleCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleCacheInvalidator{cache: cache, logger: logger}
}

// UseQueue routes invalidations through a background queue.
func (i *ScheduleCacheInvalidator) UseQueue(queue jobEnqueuer) {
	i.queue = queue
}

// QueueName is the name used for the invalidation worker pool.
func (i *ScheduleCacheInvalidator) QueueName() string {
	return invalidateQueueName
}

// Handle is the queue handler; returning an error triggers a retry.
func (i *ScheduleCacheInvalidator) Handle(ctx context.Context, job jobs.Job) error {
	if i.cache == nil {
		return nil
	}
	if err := i.cache.Invalidate(ctx, weeklyCachePattern); err != nil {
		return err
	}
	i.logger.Debug("weekly schedule cache invalidated", zap.String("job_id", job.ID), zap.Any("reason", job.Payload))
	return nil
}

// Schedule requests an invalidation. Failures are logged, never returned.
func (i *ScheduleCacheInvalidator) Schedule(ctx context.Context, reason string) {
	if i == nil || i.cache == nil {
		return
	}
	// Keyed by pattern so a burst of applies collapses into one sweep.
	job := jobs.Job{Type: invalidateJobType, Key: weeklyCachePattern, Payload: reason}
	if i.queue != nil {
		err := i.queue.Enqueue(job)
		if err == nil {
			return
		}
		i.logger.Warn("enqueue cache invalidation failed, running inline", zap.Error(err))
	}
	if err := i.Handle(context.WithoutCancel(ctx), job); err != nil {
		i.logger.Warn("weekly schedule cache invalidation failed", zap.Error(err))
	}
}
