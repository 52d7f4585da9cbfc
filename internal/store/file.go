package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dispatchopt/internal/model"
)

// File keeps one JSON document per job under a directory, rewritten on every
// transition. Writes go through a temp file + rename so a crash mid-write
// leaves the previous record intact.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create dir %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

func (f *File) CreateJob(ctx context.Context, job model.Job) error {
	return f.write(job)
}

func (f *File) UpdateJob(ctx context.Context, job model.Job) error {
	return f.write(job)
}

func (f *File) write(job model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("file store: encode job %s: %w", job.ID, err)
	}
	tmp := f.path(job.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file store: write job %s: %w", job.ID, err)
	}
	if err := os.Rename(tmp, f.path(job.ID)); err != nil {
		return fmt.Errorf("file store: commit job %s: %w", job.ID, err)
	}
	return nil
}

func (f *File) GetJob(ctx context.Context, id string) (model.Job, error) {
	data, err := os.ReadFile(f.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Job{}, ErrNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("file store: read job %s: %w", id, err)
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, fmt.Errorf("file store: decode job %s: %w", id, err)
	}
	return job, nil
}

func (f *File) CountJobs(ctx context.Context) (int, int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("file store: list jobs: %w", err)
	}
	total, active := 0, 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		total++
		job, err := f.GetJob(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		if job.Status.Active() {
			active++
		}
	}
	return total, active, nil
}
