package opt

import (
	"testing"

	"dispatchopt/internal/model"
)

func TestFormatGreedyResultRouteShape(t *testing.T) {
	warehouses := []model.Warehouse{
		wh("w1", 0, 0, 100),
		wh("w2", 0, 1, 100),
	}
	orders := []model.Order{
		order("o1", 0, 0.1, model.OrderItem{ProductID: "p1", Quantity: 3}),
		order("o2", 0, 0.2, model.OrderItem{ProductID: "p1", Quantity: 4}),
	}
	res := Result{
		Assignments: map[int][]model.Assignment{
			0: {
				{OrderIndex: 0, OrderID: "o1", Distance: 1500, Strategy: StrategyClosestAny},
				{OrderIndex: 1, OrderID: "o2", Distance: 2500, Strategy: StrategyClosestAny},
			},
		},
		Unassigned: []model.UnassignedOrder{},
	}

	out := FormatGreedyResult(warehouses, orders, res, StrategyClosestAny)
	if len(out.RouteDetails) != 1 {
		t.Fatalf("routes: %d", len(out.RouteDetails))
	}
	rd := out.RouteDetails[0]

	// warehouse start, two orders, warehouse end
	if len(rd.Stops) != 4 {
		t.Fatalf("stops: %d", len(rd.Stops))
	}
	if rd.Stops[0].Load != 0 || rd.Stops[0].Info.Type != "warehouse" {
		t.Fatalf("start stop: %+v", rd.Stops[0])
	}
	if rd.Stops[1].Load != 3 || rd.Stops[2].Load != 7 {
		t.Fatalf("cumulative loads: %d %d", rd.Stops[1].Load, rd.Stops[2].Load)
	}
	if rd.Stops[1].LocationIndex != 2 || rd.Stops[2].LocationIndex != 3 {
		t.Fatalf("location indices: %d %d", rd.Stops[1].LocationIndex, rd.Stops[2].LocationIndex)
	}
	if rd.Stops[3].Load != 7 || rd.Stops[3].Info.Type != "warehouse" {
		t.Fatalf("end stop: %+v", rd.Stops[3])
	}

	if rd.TotalDistance != 4000 {
		t.Fatalf("total distance: %d", rd.TotalDistance)
	}
	if rd.TotalDistanceKm != 4.0 {
		t.Fatalf("km: %v", rd.TotalDistanceKm)
	}
	if rd.TotalLoad != 7 || rd.StopsCount != 2 {
		t.Fatalf("load/stops: %d %d", rd.TotalLoad, rd.StopsCount)
	}
	if out.Meta.AssignedCount != 2 || out.Meta.UnassignedCount != 0 || out.Meta.WarehousesCount != 2 || out.Meta.OrdersCount != 2 {
		t.Fatalf("meta: %+v", out.Meta)
	}
}

func TestFormatGreedyResultSkipsIdleWarehouses(t *testing.T) {
	warehouses := []model.Warehouse{wh("w1", 0, 0, 100), wh("w2", 0, 1, 100)}
	orders := []model.Order{order("o1", 0, 0.1, model.OrderItem{ProductID: "p1", Quantity: 1})}
	res := Result{Assignments: map[int][]model.Assignment{
		1: {{OrderIndex: 0, OrderID: "o1", Strategy: StrategyLeastAssigned}},
	}}

	out := FormatGreedyResult(warehouses, orders, res, StrategyLeastAssigned)
	if len(out.RouteDetails) != 1 || out.RouteDetails[0].VehicleID != 1 {
		t.Fatalf("expected only w2 route: %+v", out.RouteDetails)
	}
}

func TestRoundKm(t *testing.T) {
	if got := roundKm(1234); got != 1.23 {
		t.Fatalf("roundKm(1234)=%v", got)
	}
	if got := roundKm(4567); got != 4.57 {
		t.Fatalf("roundKm(4567)=%v", got)
	}
}
