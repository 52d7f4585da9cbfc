package store

import (
	"context"

	"dispatchopt/internal/model"
)

// Cached writes through to a durable store while keeping every record in a
// Memory store for reads. Status polls hit the cache; the durable layer is
// consulted only on a miss (for example after a restart) and the record is
// refilled.
type Cached struct {
	cache   *Memory
	durable Store
}

func NewCached(durable Store) *Cached {
	return &Cached{cache: NewMemory(), durable: durable}
}

func (c *Cached) CreateJob(ctx context.Context, job model.Job) error {
	if err := c.durable.CreateJob(ctx, job); err != nil {
		return err
	}
	return c.cache.CreateJob(ctx, job)
}

func (c *Cached) UpdateJob(ctx context.Context, job model.Job) error {
	if err := c.durable.UpdateJob(ctx, job); err != nil {
		return err
	}
	return c.cache.UpdateJob(ctx, job)
}

func (c *Cached) GetJob(ctx context.Context, id string) (model.Job, error) {
	if job, err := c.cache.GetJob(ctx, id); err == nil {
		return job, nil
	}
	job, err := c.durable.GetJob(ctx, id)
	if err != nil {
		return model.Job{}, err
	}
	_ = c.cache.CreateJob(ctx, job)
	return job, nil
}

// CountJobs reports from the durable layer, which survives restarts.
func (c *Cached) CountJobs(ctx context.Context) (int, int, error) {
	return c.durable.CountJobs(ctx)
}
