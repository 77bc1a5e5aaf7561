package service

import (
	"context"

	"github.com/rl1809/oms/internal/core/domain"
	"github.com/rl1809/oms/internal/port"
)

// InventoryReservationService coordinates stock reservations across an
// order and its inventory records. It is the only component that touches
// two aggregates in one operation, which is why it owns a repository
// handle instead of being handed loaded aggregates.
type InventoryReservationService struct {
	inventory port.InventoryRepository
}

func NewInventoryReservationService(inventory port.InventoryRepository) *InventoryReservationService {
	return &InventoryReservationService{inventory: inventory}
}

// ReserveForOrder reserves inventory for every line item, two-phase:
//
//	Phase 1 loads and validates every line without mutating anything,
//	so an insufficient later line fails fast with no partial commit.
//	Phase 2 applies the reservations and persists each record.
//
// Either all lines reserve or none do; no rollback logic is needed.
func (s *InventoryReservationService) ReserveForOrder(ctx context.Context, order *domain.Order) error {
	type pending struct {
		inv *domain.InventoryItem
		qty int
	}

	reservations := make([]pending, 0, len(order.Items))
	for _, line := range order.Items {
		inv, err := s.inventory.GetByProductID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFoundf("no inventory record for product %q", line.ProductName)
		}
		qty := line.Quantity.Value()
		if qty > inv.Available() {
			return domain.InsufficientStockf("insufficient inventory for %s (need %d, have %d available)",
				line.ProductName, qty, inv.Available())
		}
		reservations = append(reservations, pending{inv: inv, qty: qty})
	}

	for _, r := range reservations {
		if err := r.inv.Reserve(r.qty); err != nil {
			return err
		}
		if err := s.inventory.Save(ctx, r.inv); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseForOrder releases the remaining (unshipped) reservation for
// every line that still has one. Shipped quantities stay permanently
// deducted. Lines are released one at a time; a failure partway leaves
// earlier lines released.
func (s *InventoryReservationService) ReleaseForOrder(ctx context.Context, order *domain.Order) error {
	for _, line := range order.Items {
		qty := line.RemainingQuantity()
		if qty <= 0 {
			continue
		}
		inv, err := s.inventory.GetByProductID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFoundf("no inventory record for product %q", line.ProductName)
		}
		if err := inv.Release(qty); err != nil {
			return err
		}
		if err := s.inventory.Save(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

// FulfillForOrder permanently deducts every remaining reserved quantity.
func (s *InventoryReservationService) FulfillForOrder(ctx context.Context, order *domain.Order) error {
	return s.FulfillItems(ctx, order.RemainingQuantities())
}

// FulfillItems deducts the given quantities, keyed by product id, from
// both reserved and total stock. Per-line, not atomic across lines.
func (s *InventoryReservationService) FulfillItems(ctx context.Context, quantities map[string]int) error {
	for productID, qty := range quantities {
		inv, err := s.inventory.GetByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFoundf("no inventory record for product id %q", productID)
		}
		if err := inv.Fulfill(qty); err != nil {
			return err
		}
		if err := s.inventory.Save(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}
