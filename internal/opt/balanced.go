package opt

import (
	"context"
	"fmt"
	"time"

	"dispatchopt/internal/model"
	"dispatchopt/internal/solver"
)

// Balanced adapts the external CVRP solver for the ortools_balanced strategy.
// It builds the solver input (locations with warehouses first, haversine
// distance matrix, demand and capacity vectors, one depot per vehicle) and
// decodes the returned node sequences into route details with cumulative
// loads. Solver infeasibility propagates as solver.ErrInfeasible; the job
// layer turns it into the job's terminal error.
type Balanced struct {
	Solver     solver.Solver
	TimeBudget time.Duration
}

func (b Balanced) Run(ctx context.Context, warehouses []model.Warehouse, orders []model.Order) (*model.OptimizeResult, error) {
	if b.Solver == nil {
		return nil, fmt.Errorf("ortools_balanced requires a solver endpoint (SOLVER_URL)")
	}
	nWh := len(warehouses)
	locations := make([]model.GeoPoint, 0, nWh+len(orders))
	demands := make([]int, 0, nWh+len(orders))
	capacities := make([]int, nWh)
	depots := make([]int, nWh)

	for i, wh := range warehouses {
		locations = append(locations, wh.Location)
		demands = append(demands, 0)
		capacities[i] = capacityOf(wh)
		depots[i] = i
	}
	for _, o := range orders {
		locations = append(locations, o.Location)
		demands = append(demands, o.Demand())
	}

	n := len(locations)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
		for j := range matrix[i] {
			if i != j {
				matrix[i][j] = HaversineMeters(locations[i], locations[j])
			}
		}
	}

	out, err := b.Solver.Solve(ctx, solver.Input{
		DistanceMatrix: matrix,
		Demands:        demands,
		Capacities:     capacities,
		DepotIndices:   depots,
		TimeBudget:     b.TimeBudget,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Routes) != nWh {
		return nil, fmt.Errorf("solver returned %d routes for %d vehicles", len(out.Routes), nWh)
	}

	return b.decode(warehouses, orders, matrix, demands, out)
}

func (b Balanced) decode(warehouses []model.Warehouse, orders []model.Order, matrix [][]int, demands []int, out solver.Output) (*model.OptimizeResult, error) {
	nWh := len(warehouses)
	var details []model.RouteDetail
	visited := make([]bool, len(orders))
	assigned := 0

	for vi, seq := range out.Routes {
		if len(seq) == 0 {
			continue
		}
		wh := warehouses[vi]
		whInfo := model.StopInfo{
			Type:        "warehouse",
			ID:          wh.ID,
			Name:        wh.Name,
			VehicleName: wh.VehicleName,
			DriverName:  wh.DriverName,
		}

		stops := []model.RouteStop{{LocationIndex: vi, Info: whInfo}}
		load := 0
		dist := 0
		prev := vi
		for _, node := range seq {
			// Node indices come from the external service; reject anything
			// outside the order range rather than indexing blindly.
			if node < nWh || node >= nWh+len(orders) {
				return nil, fmt.Errorf("solver route for vehicle %d references invalid node %d", vi, node)
			}
			load += demands[node]
			dist += matrix[prev][node]
			prev = node
			oi := node - nWh
			order := orders[oi]
			visited[oi] = true
			stops = append(stops, model.RouteStop{
				LocationIndex: node,
				Load:          load,
				Demand:        demands[node],
				Info: model.StopInfo{
					Type:          "order",
					OrderID:       order.ID,
					OrderNo:       order.OrderNo,
					ClientName:    order.ClientName,
					ClientAddress: order.ClientAddress,
					ClientPhone:   order.ClientPhone,
				},
			})
		}
		dist += matrix[prev][vi] // return leg to the depot
		stops = append(stops, model.RouteStop{
			LocationIndex: vi,
			Load:          load,
			Info:          model.StopInfo{Type: "warehouse", ID: wh.ID, Name: wh.Name},
		})

		details = append(details, model.RouteDetail{
			VehicleID:       vi,
			Stops:           stops,
			TotalDistance:   dist,
			TotalDistanceKm: roundKm(dist),
			TotalLoad:       load,
			StopsCount:      len(seq),
			Warehouse:       whInfo,
			Strategy:        StrategyBalanced,
		})
		assigned += len(seq)
	}

	// The solver contract covers every order on success; anything missing is
	// still surfaced rather than silently dropped.
	var unassigned []model.UnassignedOrder
	for oi, ok := range visited {
		if !ok {
			unassigned = append(unassigned, model.UnassignedOrder{
				OrderIndex: oi, OrderID: orders[oi].ID, Reason: model.ReasonNoWarehouseAvailable,
			})
		}
	}

	return &model.OptimizeResult{
		RouteDetails: details,
		Unassigned:   unassigned,
		Strategy:     StrategyBalanced,
		Meta: model.ResultMeta{
			WarehousesCount: nWh,
			OrdersCount:     len(orders),
			AssignedCount:   assigned,
			UnassignedCount: len(unassigned),
		},
	}, nil
}
