package service

import (
	"context"
	"strings"

	"github.com/rl1809/oms/internal/core/domain"
	"github.com/rl1809/oms/internal/port"
)

// OrderService orchestrates the order lifecycle: it loads aggregates
// through the ports, invokes the domain, and persists the results. The
// ordering rules live here (reserve before confirm, release before
// cancel) because the aggregates deliberately do not touch inventory
// themselves.
type OrderService struct {
	orders       port.OrderRepository
	products     port.ProductRepository
	reservations *InventoryReservationService
}

func NewOrderService(orders port.OrderRepository, products port.ProductRepository, inventory port.InventoryRepository) *OrderService {
	return &OrderService{
		orders:       orders,
		products:     products,
		reservations: NewInventoryReservationService(inventory),
	}
}

// Create builds a new DRAFT order. Each spec's product name is resolved
// to the catalog entry and the current price is snapshotted into the
// line item; later catalog price changes never reach this order.
func (s *OrderService) Create(ctx context.Context, customerName string, specs []OrderItemSpec) (OrderDTO, error) {
	lineItems := make([]*domain.OrderLineItem, 0, len(specs))
	for _, spec := range specs {
		product, err := s.products.GetByName(ctx, spec.ProductName)
		if err != nil {
			return OrderDTO{}, err
		}
		if product == nil {
			return OrderDTO{}, domain.NotFoundf("product not found: %q", spec.ProductName)
		}
		qty, err := domain.NewQuantity(spec.Quantity)
		if err != nil {
			return OrderDTO{}, err
		}
		lineItems = append(lineItems, domain.NewOrderLineItem(product.ID, product.Name, qty, product.Price))
	}

	order, err := domain.NewOrder(customerName, lineItems)
	if err != nil {
		return OrderDTO{}, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return OrderDTO{}, err
	}
	return orderToDTO(order)
}

// Get returns an order for display.
func (s *OrderService) Get(ctx context.Context, orderID int64) (OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return orderToDTO(order)
}

// Confirm reserves inventory for the order, then transitions it to
// CONFIRMED. Reservation comes first: a draft order with no stock
// behind it must stay a draft.
func (s *OrderService) Confirm(ctx context.Context, orderID int64) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.reservations.ReserveForOrder(ctx, order); err != nil {
		return err
	}
	if err := order.Confirm(); err != nil {
		return err
	}
	return s.orders.Save(ctx, order)
}

// Fulfill ships items on an order, fully or partially. partialItems maps
// product name to quantity; nil means ship everything that remains. The
// order-side state change and the inventory-side deduction both happen
// here; they operate on independent records, but both must occur.
func (s *OrderService) Fulfill(ctx context.Context, orderID int64, partialItems map[string]int) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}

	var quantities map[string]int
	if partialItems != nil {
		quantities, err = resolveNamesToIDs(order, partialItems)
		if err != nil {
			return err
		}
	} else {
		quantities = order.RemainingQuantities()
	}

	if err := order.FulfillItems(quantities); err != nil {
		return err
	}
	if err := s.reservations.FulfillItems(ctx, quantities); err != nil {
		return err
	}
	return s.orders.Save(ctx, order)
}

// Cancel releases the order's remaining reservations (when it had any)
// and transitions it to CANCELLED. Draft orders never reserved anything,
// so there is nothing to release. Shipped quantities on a partially
// fulfilled order stay deducted and on record.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status == domain.OrderStatusConfirmed || order.Status == domain.OrderStatusPartiallyFulfilled {
		if err := s.reservations.ReleaseForOrder(ctx, order); err != nil {
			return err
		}
	}

	if err := order.Cancel(); err != nil {
		return err
	}
	return s.orders.Save(ctx, order)
}

func (s *OrderService) load(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("order #%d not found", orderID)
	}
	return order, nil
}

// resolveNamesToIDs maps user-facing product names onto the order's line
// item ids, matching case-insensitively.
func resolveNamesToIDs(order *domain.Order, nameQuantities map[string]int) (map[string]int, error) {
	result := make(map[string]int, len(nameQuantities))
	for name, qty := range nameQuantities {
		found := false
		for _, item := range order.Items {
			if strings.EqualFold(item.ProductName, name) {
				result[item.ProductID] = qty
				found = true
				break
			}
		}
		if !found {
			return nil, domain.Validationf("product %q not found in order #%d", name, order.ID)
		}
	}
	return result, nil
}
