package opt

import "dispatchopt/internal/model"

// Strategy identifiers. The set is closed: dispatch goes through the registry
// built in init, never through free-form strings.
const (
	StrategyBalanced             = "ortools_balanced"
	StrategyClosestWithInventory = "closest_with_inventory"
	StrategyClosestAny           = "closest_any"
	StrategyLeastAssigned        = "least_assigned_orders"
	StrategyLeastTotalLoad       = "least_total_load"
)

// DefaultCapacity applies when a warehouse or vehicle specifies none.
const DefaultCapacity = 100

// Result is the raw outcome of a greedy strategy run: per-warehouse ordered
// assignment lists plus the unassigned remainder. Every input order appears
// exactly once across the two.
type Result struct {
	Assignments map[int][]model.Assignment
	Unassigned  []model.UnassignedOrder
}

// GreedyStrategy processes orders strictly in input order against the given
// warehouses, accumulating load on them in place. Implementations hold no
// state between invocations.
type GreedyStrategy interface {
	ID() string
	Assign(warehouses []model.Warehouse, orders []model.Order) Result
}

var registry = map[string]GreedyStrategy{}

func register(s GreedyStrategy) { registry[s.ID()] = s }

func init() {
	register(closestWithInventory{})
	register(closestAny{})
	register(leastAssigned{})
	register(leastTotalLoad{})
}

// Lookup returns the greedy strategy for a tag. The balanced strategy is not
// greedy and is dispatched to the solver adapter instead.
func Lookup(tag string) (GreedyStrategy, bool) {
	s, ok := registry[tag]
	return s, ok
}

// ValidStrategy reports whether tag names any recognized strategy.
func ValidStrategy(tag string) bool {
	if tag == StrategyBalanced {
		return true
	}
	_, ok := registry[tag]
	return ok
}

// Catalog returns the static strategy listing served by the API.
func Catalog() []model.StrategyInfo {
	return []model.StrategyInfo{
		{ID: StrategyBalanced, Name: "OR-Tools Balanced", Description: "Uses a capacitated routing solver to optimize routes with balanced load distribution"},
		{ID: StrategyClosestWithInventory, Name: "Closest Driver with Inventory", Description: "Assigns orders to nearest driver who has required inventory"},
		{ID: StrategyClosestAny, Name: "Closest Driver (Any)", Description: "Assigns orders to nearest driver regardless of inventory (may need restocking)"},
		{ID: StrategyLeastAssigned, Name: "Least Assigned Orders", Description: "Assigns orders to driver with fewest current assignments"},
		{ID: StrategyLeastTotalLoad, Name: "Least Total Load", Description: "Assigns orders to driver with lowest current load"},
	}
}

func capacityOf(wh model.Warehouse) int {
	if wh.Capacity > 0 {
		return wh.Capacity
	}
	return DefaultCapacity
}
