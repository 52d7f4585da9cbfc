package opt

import "dispatchopt/internal/model"

// MissingItem describes a line item a warehouse cannot cover in full.
// Diagnostic only: shortages never relax capacity or demand accounting.
type MissingItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Required    int    `json:"required"`
	Available   int    `json:"available"`
	Shortage    int    `json:"shortage"`
}

// CheckInventory reports whether the warehouse holds enough of every product
// the order requires, plus the per-item shortfall when it does not.
func CheckInventory(wh model.Warehouse, order model.Order) (bool, []MissingItem) {
	available := make(map[string]int, len(wh.Inventory))
	for _, it := range wh.Inventory {
		available[it.ProductID] += it.Quantity
	}

	var missing []MissingItem
	for _, it := range order.Items {
		have := available[it.ProductID]
		if have < it.Quantity {
			missing = append(missing, MissingItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Required:    it.Quantity,
				Available:   have,
				Shortage:    it.Quantity - have,
			})
		}
	}
	return len(missing) == 0, missing
}
