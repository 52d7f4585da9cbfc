package opt

import "dispatchopt/internal/model"

// The four greedy strategies share one skeleton: scan all warehouses per
// order, keep the best candidate under a strict < comparison (so the first
// warehouse wins exact ties), then either record the assignment and add the
// order's demand to the winner's load, or record the order unassigned with the
// strategy's reason code. Outcomes are final for the run; there is no
// backtracking.

type closestWithInventory struct{}

func (closestWithInventory) ID() string { return StrategyClosestWithInventory }

func (s closestWithInventory) Assign(warehouses []model.Warehouse, orders []model.Order) Result {
	res := Result{Assignments: map[int][]model.Assignment{}}
	for oi, order := range orders {
		best := -1
		bestDist := 0
		for wi, wh := range warehouses {
			if ok, _ := CheckInventory(wh, order); !ok {
				continue
			}
			if wh.CurrentAssignedLoad >= capacityOf(wh) {
				continue
			}
			d := HaversineMeters(wh.Location, order.Location)
			if best == -1 || d < bestDist {
				bestDist = d
				best = wi
			}
		}
		if best == -1 {
			res.Unassigned = append(res.Unassigned, model.UnassignedOrder{
				OrderIndex: oi, OrderID: order.ID, Reason: model.ReasonNoWarehouseWithInventory,
			})
			continue
		}
		res.Assignments[best] = append(res.Assignments[best], model.Assignment{
			OrderIndex: oi, OrderID: order.ID, Distance: bestDist, Strategy: s.ID(),
		})
		warehouses[best].CurrentAssignedLoad += order.Demand()
	}
	return res
}

type closestAny struct{}

func (closestAny) ID() string { return StrategyClosestAny }

func (s closestAny) Assign(warehouses []model.Warehouse, orders []model.Order) Result {
	res := Result{Assignments: map[int][]model.Assignment{}}
	for oi, order := range orders {
		best := -1
		bestDist := 0
		needsRestock := false
		for wi, wh := range warehouses {
			if wh.CurrentAssignedLoad >= capacityOf(wh) {
				continue
			}
			d := HaversineMeters(wh.Location, order.Location)
			if best == -1 || d < bestDist {
				bestDist = d
				best = wi
				ok, _ := CheckInventory(wh, order)
				needsRestock = !ok
			}
		}
		if best == -1 {
			res.Unassigned = append(res.Unassigned, model.UnassignedOrder{
				OrderIndex: oi, OrderID: order.ID, Reason: model.ReasonAllWarehousesAtCapacity,
			})
			continue
		}
		res.Assignments[best] = append(res.Assignments[best], model.Assignment{
			OrderIndex: oi, OrderID: order.ID, Distance: bestDist, NeedsRestock: needsRestock, Strategy: s.ID(),
		})
		warehouses[best].CurrentAssignedLoad += order.Demand()
	}
	return res
}

type leastAssigned struct{}

func (leastAssigned) ID() string { return StrategyLeastAssigned }

func (s leastAssigned) Assign(warehouses []model.Warehouse, orders []model.Order) Result {
	res := Result{Assignments: map[int][]model.Assignment{}}
	for oi, order := range orders {
		best := -1
		bestCount := 0
		for wi, wh := range warehouses {
			if wh.CurrentAssignedLoad >= capacityOf(wh) {
				continue
			}
			count := len(res.Assignments[wi]) + wh.PreAssignedCount
			if best != -1 && count >= bestCount {
				continue
			}
			if ok, _ := CheckInventory(wh, order); !ok {
				continue
			}
			bestCount = count
			best = wi
		}
		if best == -1 {
			res.Unassigned = append(res.Unassigned, model.UnassignedOrder{
				OrderIndex: oi, OrderID: order.ID, Reason: model.ReasonNoWarehouseAvailable,
			})
			continue
		}
		res.Assignments[best] = append(res.Assignments[best], model.Assignment{
			OrderIndex: oi, OrderID: order.ID, Strategy: s.ID(),
		})
		warehouses[best].CurrentAssignedLoad += order.Demand()
	}
	return res
}

type leastTotalLoad struct{}

func (leastTotalLoad) ID() string { return StrategyLeastTotalLoad }

func (s leastTotalLoad) Assign(warehouses []model.Warehouse, orders []model.Order) Result {
	res := Result{Assignments: map[int][]model.Assignment{}}
	for oi, order := range orders {
		demand := order.Demand()
		best := -1
		bestLoad := 0
		for wi, wh := range warehouses {
			// Unlike the closest strategies, candidacy requires room for the
			// whole order, not just headroom below capacity.
			if wh.CurrentAssignedLoad+demand > capacityOf(wh) {
				continue
			}
			if ok, _ := CheckInventory(wh, order); !ok {
				continue
			}
			if best == -1 || wh.CurrentAssignedLoad < bestLoad {
				bestLoad = wh.CurrentAssignedLoad
				best = wi
			}
		}
		if best == -1 {
			res.Unassigned = append(res.Unassigned, model.UnassignedOrder{
				OrderIndex: oi, OrderID: order.ID, Reason: model.ReasonInsufficientCapacityOrInventory,
			})
			continue
		}
		res.Assignments[best] = append(res.Assignments[best], model.Assignment{
			OrderIndex: oi, OrderID: order.ID, Strategy: s.ID(),
		})
		warehouses[best].CurrentAssignedLoad += demand
	}
	return res
}
