// Package solver defines the narrow contract to the external capacitated
// vehicle-routing solver. The adapter in internal/opt owns all translation to
// and from these structures; nothing else in the repo speaks to the solver.
package solver

import (
	"context"
	"errors"
	"time"
)

// ErrInfeasible is returned when the solver explicitly reports that no
// feasible solution exists within the constraints and time budget. It is
// reported, never retried.
var ErrInfeasible = errors.New("no feasible solution found")

// Input is the pure problem statement: a square distance matrix over all
// locations (depots first), a demand per location (zero at depots), one
// capacity per vehicle, and the depot index each vehicle starts and ends at.
type Input struct {
	DistanceMatrix [][]int       `json:"distanceMatrix"`
	Demands        []int         `json:"demands"`
	Capacities     []int         `json:"vehicleCapacities"`
	DepotIndices   []int         `json:"depotIndices"`
	TimeBudget     time.Duration `json:"-"`
	TimeBudgetMs   int64         `json:"timeBudgetMs"`
}

// Output holds one ordered node sequence per vehicle. Sequences exclude the
// depot; an empty sequence means the vehicle stays home.
type Output struct {
	Routes [][]int `json:"routes"`
}

// Solver is the external collaborator boundary. Implementations must honor
// the input's time budget and return ErrInfeasible when the search proves or
// gives up on feasibility.
type Solver interface {
	Solve(ctx context.Context, in Input) (Output, error)
}
