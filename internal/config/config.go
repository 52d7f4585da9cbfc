package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is loaded from an optional YAML file, then overridden by environment
// variables. A missing file is not an error; envs alone are enough to run.
type Config struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`
	JobsDir     string `yaml:"jobsDir"`
	Workers     int    `yaml:"workers"`

	Solver SolverConfig `yaml:"solver"`

	// SubmitRPS caps optimization submissions per second; 0 disables the cap.
	SubmitRPS   float64 `yaml:"submitRps"`
	SubmitBurst int     `yaml:"submitBurst"`
}

type SolverConfig struct {
	URL          string        `yaml:"url"`
	TimeBudgetMs int           `yaml:"timeBudgetMs"`
	TimeBudget   time.Duration `yaml:"-"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Port:        8080,
		JobsDir:     "jobs_data",
		SubmitBurst: 10,
	}
	cfg.Solver.TimeBudgetMs = 30000

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: PORT: %w", err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JOBS_DIR"); v != "" {
		cfg.JobsDir = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("SOLVER_URL"); v != "" {
		cfg.Solver.URL = v
	}
	if v := os.Getenv("SOLVER_TIME_BUDGET_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: SOLVER_TIME_BUDGET_MS: %w", err)
		}
		cfg.Solver.TimeBudgetMs = ms
	}
	if v := os.Getenv("SUBMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: SUBMIT_RPS: %w", err)
		}
		cfg.SubmitRPS = rps
	}

	cfg.Solver.TimeBudget = time.Duration(cfg.Solver.TimeBudgetMs) * time.Millisecond
	return cfg, nil
}
