package opt

import (
	"testing"

	"dispatchopt/internal/model"
)

func TestCheckInventoryShortage(t *testing.T) {
	w := model.Warehouse{Inventory: []model.InventoryItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 10},
	}}
	o := model.Order{Items: []model.OrderItem{
		{ProductID: "p1", ProductName: "Widget", Quantity: 5},
		{ProductID: "p2", Quantity: 4},
	}}

	ok, missing := CheckInventory(w, o)
	if ok {
		t.Fatal("expected shortage")
	}
	if len(missing) != 1 {
		t.Fatalf("missing items: %+v", missing)
	}
	m := missing[0]
	if m.ProductID != "p1" || m.Required != 5 || m.Available != 3 || m.Shortage != 2 {
		t.Fatalf("bad shortage record: %+v", m)
	}
}

func TestCheckInventoryUnknownProduct(t *testing.T) {
	w := model.Warehouse{}
	o := model.Order{Items: []model.OrderItem{{ProductID: "p9", Quantity: 1}}}
	ok, missing := CheckInventory(w, o)
	if ok || len(missing) != 1 || missing[0].Available != 0 {
		t.Fatalf("expected full shortage: ok=%v missing=%+v", ok, missing)
	}
}

func TestCheckInventoryDuplicateLines(t *testing.T) {
	// Two inventory lines for the same product add up.
	w := model.Warehouse{Inventory: []model.InventoryItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p1", Quantity: 3},
	}}
	o := model.Order{Items: []model.OrderItem{{ProductID: "p1", Quantity: 5}}}
	if ok, _ := CheckInventory(w, o); !ok {
		t.Fatal("quantities should aggregate")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is about 111.2 km.
	a := model.GeoPoint{Lat: 0, Lng: 0}
	b := model.GeoPoint{Lat: 1, Lng: 0}
	d := HaversineMeters(a, b)
	if d < 111000 || d > 111500 {
		t.Fatalf("unexpected distance: %d", d)
	}
	if HaversineMeters(a, a) != 0 {
		t.Fatal("zero distance expected")
	}
	if HaversineMeters(a, b) != HaversineMeters(b, a) {
		t.Fatal("distance should be symmetric")
	}
}
