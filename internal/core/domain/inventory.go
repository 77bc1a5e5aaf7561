package domain

// InventoryItem is the per-product stock ledger. It tracks how much is
// in the warehouse (total) and how much of that is promised to confirmed
// orders (reserved).
//
// Invariant: reserved never exceeds total, so available is never
// negative.
type InventoryItem struct {
	ProductID   string
	ProductName string
	Total       int
	Reserved    int
}

// Available is what can still be promised to new orders.
func (i *InventoryItem) Available() int {
	return i.Total - i.Reserved
}

// Reserve sets stock aside for a confirmed order.
func (i *InventoryItem) Reserve(quantity int) error {
	if quantity <= 0 {
		return Validationf("reservation quantity must be positive")
	}
	if quantity > i.Available() {
		return InsufficientStockf("insufficient inventory for %s (need %d, have %d available)",
			i.ProductName, quantity, i.Available())
	}
	i.Reserved += quantity
	return nil
}

// Release returns previously reserved stock, e.g. on order cancellation.
func (i *InventoryItem) Release(quantity int) error {
	if quantity <= 0 {
		return Validationf("release quantity must be positive")
	}
	if quantity > i.Reserved {
		return Validationf("cannot release %d of %s: only %d currently reserved",
			quantity, i.ProductName, i.Reserved)
	}
	i.Reserved -= quantity
	return nil
}

// Fulfill permanently deducts shipped stock: both total and reserved
// drop by the same amount because the items leave the warehouse.
func (i *InventoryItem) Fulfill(quantity int) error {
	if quantity <= 0 {
		return Validationf("fulfill quantity must be positive")
	}
	if quantity > i.Reserved {
		return Validationf("cannot fulfill %d of %s: only %d currently reserved",
			quantity, i.ProductName, i.Reserved)
	}
	i.Reserved -= quantity
	i.Total -= quantity
	return nil
}
