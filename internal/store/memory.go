package store

import (
	"context"
	"sync"

	"dispatchopt/internal/model"
)

// Memory is a mutex-guarded job table. It serves as the read cache in front
// of a durable store, and as the only store when no durable backend is
// configured (best-effort durability is an accepted non-goal there).
type Memory struct {
	mu   sync.Mutex
	jobs map[string]model.Job
}

func NewMemory() *Memory {
	return &Memory{jobs: map[string]model.Job{}}
}

func (m *Memory) CreateJob(ctx context.Context, job model.Job) error {
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return nil
}

func (m *Memory) UpdateJob(ctx context.Context, job model.Job) error {
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetJob(ctx context.Context, id string) (model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return model.Job{}, ErrNotFound
	}
	return j, nil
}

func (m *Memory) CountJobs(ctx context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := 0
	for _, j := range m.jobs {
		if j.Status.Active() {
			active++
		}
	}
	return len(m.jobs), active, nil
}
