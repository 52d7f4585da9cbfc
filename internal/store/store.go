package store

import (
	"context"
	"errors"

	"dispatchopt/internal/model"
)

// Store persists job records. Records are addressed by job id and overwritten
// on every status transition; there is no append log.
type Store interface {
	CreateJob(ctx context.Context, job model.Job) error
	// UpdateJob replaces the whole record for job.ID.
	UpdateJob(ctx context.Context, job model.Job) error
	GetJob(ctx context.Context, id string) (model.Job, error)
	// CountJobs returns total and active (running or processing) job counts.
	CountJobs(ctx context.Context) (total, active int, err error)
}

var ErrNotFound = errors.New("not found")
