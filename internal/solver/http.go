package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSolver calls a routing-solver service over HTTP. The request carries
// the Input verbatim; the service answers 200 with an Output, or 422 when the
// problem is infeasible.
type HTTPSolver struct {
	URL  string
	HTTP *http.Client
}

func NewHTTPSolver(url string) *HTTPSolver {
	return &HTTPSolver{URL: url, HTTP: &http.Client{Timeout: 5 * time.Minute}}
}

func (s *HTTPSolver) Solve(ctx context.Context, in Input) (Output, error) {
	in.TimeBudgetMs = in.TimeBudget.Milliseconds()

	// Give the service headroom beyond its own search budget.
	ctx, cancel := context.WithTimeout(ctx, in.TimeBudget+10*time.Second)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return Output{}, fmt.Errorf("solver: encode input: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL+"/solve", bytes.NewReader(body))
	if err != nil {
		return Output{}, fmt.Errorf("solver: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("solver: request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return Output{}, ErrInfeasible
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Output{}, fmt.Errorf("solver: status %d: %s", resp.StatusCode, string(b))
	}

	var out Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Output{}, fmt.Errorf("solver: decode output: %w", err)
	}
	return out, nil
}
