package opt

import (
	"math"

	"dispatchopt/internal/model"
)

// FormatGreedyResult packages a greedy strategy's raw result into the uniform
// route-detail representation: one route per warehouse that received work,
// with a warehouse start stop, the assigned orders in assignment order, and a
// warehouse end stop carrying the final cumulative load. Order location
// indices are offset by the warehouse count, matching the solver adapter's
// location layout.
func FormatGreedyResult(warehouses []model.Warehouse, orders []model.Order, res Result, strategy string) *model.OptimizeResult {
	var details []model.RouteDetail
	assigned := 0

	for wi, wh := range warehouses {
		assignments := res.Assignments[wi]
		if len(assignments) == 0 {
			continue
		}

		whInfo := model.StopInfo{
			Type:        "warehouse",
			ID:          wh.ID,
			Name:        wh.Name,
			VehicleName: wh.VehicleName,
			DriverName:  wh.DriverName,
		}

		stops := []model.RouteStop{{LocationIndex: wi, Info: whInfo}}
		totalLoad := 0
		totalDistance := 0
		for _, a := range assignments {
			order := orders[a.OrderIndex]
			demand := order.Demand()
			totalLoad += demand
			totalDistance += a.Distance
			stops = append(stops, model.RouteStop{
				LocationIndex: len(warehouses) + a.OrderIndex,
				Load:          totalLoad,
				Demand:        demand,
				NeedsRestock:  a.NeedsRestock,
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
		stops = append(stops, model.RouteStop{
			LocationIndex: wi,
			Load:          totalLoad,
			Info:          model.StopInfo{Type: "warehouse", ID: wh.ID, Name: wh.Name},
		})

		details = append(details, model.RouteDetail{
			VehicleID:       wi,
			Stops:           stops,
			TotalDistance:   totalDistance,
			TotalDistanceKm: roundKm(totalDistance),
			TotalLoad:       totalLoad,
			StopsCount:      len(assignments),
			Warehouse:       whInfo,
			Strategy:        strategy,
		})
		assigned += len(assignments)
	}

	return &model.OptimizeResult{
		RouteDetails: details,
		Unassigned:   res.Unassigned,
		Strategy:     strategy,
		Meta: model.ResultMeta{
			WarehousesCount: len(warehouses),
			OrdersCount:     len(orders),
			AssignedCount:   assigned,
			UnassignedCount: len(res.Unassigned),
		},
	}
}

func roundKm(meters int) float64 {
	return math.Round(float64(meters)/1000*100) / 100
}
