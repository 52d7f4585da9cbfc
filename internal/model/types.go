package model

// Core domain types shared by the API, store, and assignment engine.

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// InventoryItem is one product line held by a warehouse.
type InventoryItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Warehouse doubles as the vehicle/depot for its own route. Strategies mutate
// CurrentAssignedLoad in place during a single run, so each job must operate
// on its own copy (see CloneWarehouses).
type Warehouse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name,omitempty"`
	Location            GeoPoint        `json:"location"`
	Capacity            int             `json:"capacity,omitempty"`
	PreAssignedCount    int             `json:"preAssignedCount,omitempty"`
	CurrentAssignedLoad int             `json:"currentAssignedLoad,omitempty"`
	Inventory           []InventoryItem `json:"inventory,omitempty"`
	VehicleName         string          `json:"vehicleName,omitempty"`
	DriverName          string          `json:"driverName,omitempty"`
}

type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderNo       string      `json:"orderNo,omitempty"`
	Location      GeoPoint    `json:"location"`
	Items         []OrderItem `json:"items"`
	ClientName    string      `json:"clientName,omitempty"`
	ClientAddress string      `json:"clientAddress,omitempty"`
	ClientPhone   string      `json:"clientPhone,omitempty"`
}

// Demand is the total quantity across an order's line items, used for all
// capacity accounting.
func (o Order) Demand() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// Assignment records one order routed to one warehouse by a greedy strategy.
// Distance is set only by the distance-based strategies; NeedsRestock only by
// closest_any.
type Assignment struct {
	OrderIndex   int    `json:"orderIndex"`
	OrderID      string `json:"orderId"`
	Distance     int    `json:"distance,omitempty"`
	NeedsRestock bool   `json:"needsRestock,omitempty"`
	Strategy     string `json:"strategy"`
}

// UnassignedOrder carries the reason an order could not be placed. The reason
// codes are data, not errors.
type UnassignedOrder struct {
	OrderIndex int    `json:"orderIndex"`
	OrderID    string `json:"orderId"`
	Reason     string `json:"reason"`
}

const (
	ReasonNoWarehouseWithInventory        = "no_warehouse_with_inventory"
	ReasonAllWarehousesAtCapacity         = "all_warehouses_at_capacity"
	ReasonNoWarehouseAvailable            = "no_warehouse_available"
	ReasonInsufficientCapacityOrInventory = "insufficient_capacity_or_inventory"
)

// OptimizeRequest is the submitted payload. Strategy defaults to
// ortools_balanced when empty.
type OptimizeRequest struct {
	Warehouses []Warehouse `json:"warehouses"`
	Orders     []Order     `json:"orders"`
	Strategy   string      `json:"strategy,omitempty"`
}

type JobStatus string

const (
	StatusRunning    JobStatus = "running"
	StatusProcessing JobStatus = "processing"
	StatusDone       JobStatus = "done"
	StatusError      JobStatus = "error"
)

// Active reports whether the job still occupies or awaits a worker.
func (s JobStatus) Active() bool { return s == StatusRunning || s == StatusProcessing }

// Job is the durable record for one optimization request. It is overwritten
// on each transition; once Done or Error it never changes again.
type Job struct {
	ID       string           `json:"id"`
	Status   JobStatus        `json:"status"`
	Progress int              `json:"progress"`
	Strategy string           `json:"strategy"`
	Payload  *OptimizeRequest `json:"payload,omitempty"`
	Result   *OptimizeResult  `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// JobView is the read model returned by status queries.
type JobView struct {
	Status   JobStatus       `json:"status"`
	Progress int             `json:"progress"`
	Result   *OptimizeResult `json:"result"`
	Error    string          `json:"error,omitempty"`
	Strategy string          `json:"strategy"`
}

// StopInfo describes the location behind a route stop, tagged warehouse or
// order.
type StopInfo struct {
	Type          string `json:"type"`
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	VehicleName   string `json:"vehicleName,omitempty"`
	DriverName    string `json:"driverName,omitempty"`
	OrderID       string `json:"orderId,omitempty"`
	OrderNo       string `json:"orderNo,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	ClientAddress string `json:"clientAddress,omitempty"`
	ClientPhone   string `json:"clientPhone,omitempty"`
}

// RouteStop is one visit on a vehicle's route. Load is the cumulative load
// after servicing the stop.
type RouteStop struct {
	LocationIndex int      `json:"locationIndex"`
	Load          int      `json:"load"`
	Demand        int      `json:"demand"`
	NeedsRestock  bool     `json:"needsRestock,omitempty"`
	Info          StopInfo `json:"locationInfo"`
}

// RouteDetail is the uniform route representation for one vehicle/warehouse:
// warehouse start, assigned orders in order, warehouse end.
type RouteDetail struct {
	VehicleID       int         `json:"vehicleId"`
	Stops           []RouteStop `json:"route"`
	TotalDistance   int         `json:"totalDistance"`
	TotalDistanceKm float64     `json:"totalDistanceKm"`
	TotalLoad       int         `json:"totalLoad"`
	StopsCount      int         `json:"stopsCount"`
	Warehouse       StopInfo    `json:"warehouseInfo"`
	Strategy        string      `json:"strategyUsed"`
}

type ResultMeta struct {
	WarehousesCount int `json:"warehousesCount"`
	OrdersCount     int `json:"ordersCount"`
	AssignedCount   int `json:"assignedCount"`
	UnassignedCount int `json:"unassignedCount"`
}

// OptimizeResult is the terminal payload of a successful job.
type OptimizeResult struct {
	RouteDetails []RouteDetail     `json:"routeDetails"`
	Unassigned   []UnassignedOrder `json:"unassignedOrders"`
	Strategy     string            `json:"strategy"`
	Meta         ResultMeta        `json:"meta"`
}

// StrategyInfo is one entry of the static strategy catalog.
type StrategyInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CloneWarehouses deep-copies warehouses so a strategy run can mutate load
// accounting without touching caller-owned data.
func CloneWarehouses(in []Warehouse) []Warehouse {
	out := make([]Warehouse, len(in))
	for i, w := range in {
		out[i] = w
		out[i].Inventory = append([]InventoryItem(nil), w.Inventory...)
	}
	return out
}

// CloneOrders copies the order slice and each order's line items.
func CloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = o
		out[i].Items = append([]OrderItem(nil), o.Items...)
	}
	return out
}
