package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 || cfg.JobsDir != "jobs_data" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Solver.TimeBudget != 30*time.Second {
		t.Fatalf("time budget: %v", cfg.Solver.TimeBudget)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("port: 9090\njobsDir: /tmp/jobs\nworkers: 4\nsolver:\n  url: http://solver:9000\n  timeBudgetMs: 5000\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 || cfg.JobsDir != "/tmp/jobs" || cfg.Workers != 4 {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.Solver.URL != "http://solver:9000" || cfg.Solver.TimeBudget != 5*time.Second {
		t.Fatalf("solver cfg: %+v", cfg.Solver)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("SOLVER_URL", "http://env-solver:9000")
	t.Setenv("SOLVER_TIME_BUDGET_MS", "1500")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Fatalf("port: %d", cfg.Port)
	}
	if cfg.Solver.URL != "http://env-solver:9000" || cfg.Solver.TimeBudget != 1500*time.Millisecond {
		t.Fatalf("solver cfg: %+v", cfg.Solver)
	}
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("WORKERS", "many")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric WORKERS")
	}
}
