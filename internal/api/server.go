package api

import (
	"context"
	"log"
	"strings"

	"dispatchopt/internal/config"
	"dispatchopt/internal/events"
	"dispatchopt/internal/jobs"
	"dispatchopt/internal/opt"
	"dispatchopt/internal/solver"
	"dispatchopt/internal/store"
)

type Server struct {
	Store  store.Store
	Jobs   *jobs.Orchestrator
	Broker events.Broker

	// ping checks the durable backend for /readyz; nil means always ready.
	ping func(context.Context) error
}

// NewServer wires the store, event broker and job orchestrator from config.
// DATABASE_URL selects Postgres; otherwise jobs persist as JSON files under
// JobsDir. Either way reads are served from a write-through memory cache.
func NewServer(cfg config.Config) (*Server, error) {
	var durable store.Store
	var ping func(context.Context) error
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		durable = pg
		ping = pg.Ping
	} else {
		fs, err := store.NewFile(cfg.JobsDir)
		if err != nil {
			return nil, err
		}
		durable = fs
	}
	st := store.NewCached(durable)

	var broker events.Broker
	if cfg.RedisURL != "" {
		rb, err := events.NewRedisBroker(cfg.RedisURL)
		if err != nil {
			log.Printf("redis broker unavailable, using in-memory: %v", err)
			broker = events.NewMemoryBroker()
		} else {
			broker = rb
		}
	} else {
		broker = events.NewMemoryBroker()
	}

	balanced := opt.Balanced{TimeBudget: cfg.Solver.TimeBudget}
	if cfg.Solver.URL != "" {
		balanced.Solver = solver.NewHTTPSolver(cfg.Solver.URL)
	}

	orch := jobs.NewOrchestrator(st, broker, balanced, cfg.Workers)
	return &Server{Store: st, Jobs: orch, Broker: broker, ping: ping}, nil
}

// Close stops the worker pool and the broker.
func (s *Server) Close() {
	s.Jobs.Close()
	_ = s.Broker.Close()
}
