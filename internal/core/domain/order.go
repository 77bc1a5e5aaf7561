package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusDraft              OrderStatus = "DRAFT"
	OrderStatusConfirmed          OrderStatus = "CONFIRMED"
	OrderStatusPartiallyFulfilled OrderStatus = "PARTIALLY_FULFILLED"
	OrderStatusFulfilled          OrderStatus = "FULFILLED"
	OrderStatusCancelled          OrderStatus = "CANCELLED"
)

// allowedTransitions is the single source of truth for the order state
// machine. Confirm, FulfillItems and Cancel all consult it before their
// own guards so the three methods cannot drift apart.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:              {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:          {OrderStatusPartiallyFulfilled, OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusPartiallyFulfilled: {OrderStatusPartiallyFulfilled, OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusFulfilled:          {},
	OrderStatusCancelled:          {},
}

func (s OrderStatus) canTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Business rule constants.
var MinOrderTotal = MustMoney("10.00")

const MaxLineItems = 50

// OrderLineItem captures the price snapshot of a product at the time
// the order was created. UnitPrice never changes afterwards, even if the
// catalog price does. Quantity is the original ordered amount; shipment
// progress is tracked separately in shipped.
type OrderLineItem struct {
	ProductID   string
	ProductName string
	Quantity    Quantity
	UnitPrice   Money
	shipped     int
}

func NewOrderLineItem(productID, productName string, quantity Quantity, unitPrice Money) *OrderLineItem {
	return &OrderLineItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

// RestoreOrderLineItem reconstitutes a persisted line item, including
// shipment progress. Repositories only; it performs no validation.
func RestoreOrderLineItem(productID, productName string, quantity Quantity, unitPrice Money, shipped int) *OrderLineItem {
	return &OrderLineItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		shipped:     shipped,
	}
}

func (li *OrderLineItem) ShippedQuantity() int { return li.shipped }

func (li *OrderLineItem) RemainingQuantity() int {
	return li.Quantity.Value() - li.shipped
}

func (li *OrderLineItem) IsFullyShipped() bool {
	return li.RemainingQuantity() == 0
}

// LineTotal bills what was ordered, not what has shipped.
func (li *OrderLineItem) LineTotal() Money {
	return li.UnitPrice.MulInt(li.Quantity.Value())
}

// Ship records quantity as shipped. It cannot exceed what remains.
func (li *OrderLineItem) Ship(quantity int) error {
	if quantity <= 0 {
		return Validationf("ship quantity must be positive, got %d", quantity)
	}
	if quantity > li.RemainingQuantity() {
		return Validationf("cannot ship %d of %s: only %d remaining",
			quantity, li.ProductName, li.RemainingQuantity())
	}
	li.shipped += quantity
	return nil
}

// Order is the aggregate root for purchase orders. It exclusively owns
// its line items and enforces every lifecycle invariant.
//
// ID is zero until the repository assigns one on first save.
type Order struct {
	ID           int64
	CustomerName string
	Items        []*OrderLineItem
	Status       OrderStatus
	CreatedAt    time.Time
}

// NewOrder creates a DRAFT order, enforcing all creation rules. On any
// violation it returns a validation error and no order exists; there is
// no partially-constructed state.
func NewOrder(customerName string, items []*OrderLineItem) (*Order, error) {
	trimmed := strings.TrimSpace(customerName)
	if trimmed == "" {
		return nil, Validationf("customer name is required")
	}
	if len(items) == 0 {
		return nil, Validationf("order must contain at least one item")
	}
	if len(items) > MaxLineItems {
		return nil, Validationf("maximum %d items per order", MaxLineItems)
	}

	order := &Order{
		CustomerName: trimmed,
		Items:        append([]*OrderLineItem(nil), items...),
		Status:       OrderStatusDraft,
		CreatedAt:    time.Now().UTC(),
	}

	total, err := order.Total()
	if err != nil {
		return nil, err
	}
	below, err := total.LessThan(MinOrderTotal)
	if err != nil {
		return nil, err
	}
	if below {
		return nil, Validationf("order total %s below minimum %s", total, MinOrderTotal)
	}
	return order, nil
}

// RestoreOrder reconstitutes a persisted order without re-validating
// creation rules. Repositories only.
func RestoreOrder(id int64, customerName string, items []*OrderLineItem, status OrderStatus, createdAt time.Time) *Order {
	return &Order{
		ID:           id,
		CustomerName: customerName,
		Items:        items,
		Status:       status,
		CreatedAt:    createdAt,
	}
}

// Total sums line totals using the original ordered quantities. Shipping
// progress never changes it.
func (o *Order) Total() (Money, error) {
	result := MustMoney("0.00")
	for _, item := range o.Items {
		sum, err := result.Add(item.LineTotal())
		if err != nil {
			return Money{}, err
		}
		result = sum
	}
	return result, nil
}

// HasShipments reports whether anything has shipped yet.
func (o *Order) HasShipments() bool {
	for _, item := range o.Items {
		if item.ShippedQuantity() > 0 {
			return true
		}
	}
	return false
}

// Confirm moves DRAFT → CONFIRMED. The caller must have reserved
// inventory first; the aggregate does not touch inventory itself.
func (o *Order) Confirm() error {
	if o.Status != OrderStatusDraft || !o.Status.canTransitionTo(OrderStatusConfirmed) {
		return Validationf("cannot confirm order in %s status (expected %s)",
			o.Status, OrderStatusDraft)
	}
	o.Status = OrderStatusConfirmed
	return nil
}

// FulfillItems ships the given quantities, keyed by product id, and
// advances the status: FULFILLED once every line is fully shipped,
// PARTIALLY_FULFILLED otherwise.
//
// Every quantity is validated against its line before any line is
// mutated, so a bad quantity leaves the order untouched.
func (o *Order) FulfillItems(quantities map[string]int) error {
	if err := o.ensureFulfillable(); err != nil {
		return err
	}
	if len(quantities) == 0 {
		return Validationf("must specify at least one item to fulfill")
	}

	// Validate everything up front; mutate only after all checks pass.
	type shipment struct {
		item *OrderLineItem
		qty  int
	}
	shipments := make([]shipment, 0, len(quantities))
	for productID, qty := range quantities {
		item := o.findItem(productID)
		if item == nil {
			return Validationf("product id %s not found in this order", productID)
		}
		if qty <= 0 {
			return Validationf("ship quantity must be positive, got %d", qty)
		}
		if qty > item.RemainingQuantity() {
			return Validationf("cannot ship %d of %s: only %d remaining",
				qty, item.ProductName, item.RemainingQuantity())
		}
		shipments = append(shipments, shipment{item: item, qty: qty})
	}

	for _, s := range shipments {
		if err := s.item.Ship(s.qty); err != nil {
			return err
		}
	}

	if o.allItemsShipped() {
		o.Status = OrderStatusFulfilled
	} else {
		o.Status = OrderStatusPartiallyFulfilled
	}
	return nil
}

// Fulfill ships every remaining quantity on the order.
func (o *Order) Fulfill() error {
	return o.FulfillItems(o.RemainingQuantities())
}

// RemainingQuantities maps product id to unshipped quantity for every
// line that still has something to ship.
func (o *Order) RemainingQuantities() map[string]int {
	quantities := make(map[string]int)
	for _, item := range o.Items {
		if item.RemainingQuantity() > 0 {
			quantities[item.ProductID] = item.RemainingQuantity()
		}
	}
	return quantities
}

// Cancel moves any non-terminal state to CANCELLED. It does not touch
// inventory; the caller must release remaining reservations beforehand.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return Validationf("order already cancelled")
	}
	if o.Status == OrderStatusFulfilled || !o.Status.canTransitionTo(OrderStatusCancelled) {
		return Validationf("cannot cancel order in %s status", o.Status)
	}
	o.Status = OrderStatusCancelled
	return nil
}

func (o *Order) ensureFulfillable() error {
	if o.Status == OrderStatusFulfilled {
		return Validationf("order already fulfilled")
	}
	if !o.Status.canTransitionTo(OrderStatusFulfilled) {
		return Validationf("cannot fulfill order in %s status", o.Status)
	}
	return nil
}

func (o *Order) findItem(productID string) *OrderLineItem {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

func (o *Order) allItemsShipped() bool {
	for _, item := range o.Items {
		if !item.IsFullyShipped() {
			return false
		}
	}
	return true
}
