package solver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSolverSolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solve" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode input: %v", err)
		}
		if in.TimeBudgetMs != 2000 {
			t.Errorf("time budget ms: %d", in.TimeBudgetMs)
		}
		_ = json.NewEncoder(w).Encode(Output{Routes: [][]int{{1, 2}}})
	}))
	defer srv.Close()

	s := NewHTTPSolver(srv.URL)
	out, err := s.Solve(context.Background(), Input{
		DistanceMatrix: [][]int{{0}},
		TimeBudget:     2 * time.Second,
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(out.Routes) != 1 || len(out.Routes[0]) != 2 {
		t.Fatalf("routes: %+v", out.Routes)
	}
}

func TestHTTPSolverInfeasible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := NewHTTPSolver(srv.URL)
	_, err := s.Solve(context.Background(), Input{TimeBudget: time.Second})
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestHTTPSolverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSolver(srv.URL)
	_, err := s.Solve(context.Background(), Input{TimeBudget: time.Second})
	if err == nil || errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected opaque error, got %v", err)
	}
}
