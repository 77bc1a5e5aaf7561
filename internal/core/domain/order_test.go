package domain

import (
	"strings"
	"testing"
	"time"
)

func makeItem(t *testing.T, id, name string, qty int, price string) *OrderLineItem {
	t.Helper()
	q, err := NewQuantity(qty)
	if err != nil {
		t.Fatalf("NewQuantity(%d): %v", qty, err)
	}
	return NewOrderLineItem(id, name, q, MustMoney(price))
}

func confirmedOrder(t *testing.T, items ...*OrderLineItem) *Order {
	t.Helper()
	return RestoreOrder(1, "Alice", items, OrderStatusConfirmed, time.Now().UTC())
}

// --- creation ---

func TestNewOrder_HappyPath(t *testing.T) {
	order, err := NewOrder("Alice", []*OrderLineItem{makeItem(t, "1", "Widget", 2, "10.00")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != OrderStatusDraft {
		t.Errorf("expected DRAFT, got %s", order.Status)
	}
	if order.ID != 0 {
		t.Errorf("new order must have no id until saved, got %d", order.ID)
	}
	total, err := order.Total()
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !total.Equal(MustMoney("20.00")) {
		t.Errorf("expected $20.00, got %s", total)
	}
}

func TestNewOrder_TotalSumsLineItems(t *testing.T) {
	order, err := NewOrder("Bob", []*OrderLineItem{
		makeItem(t, "1", "Widget", 3, "15.00"),
		makeItem(t, "2", "Gadget", 5, "25.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total, _ := order.Total()
	if !total.Equal(MustMoney("170.00")) {
		t.Errorf("expected $170.00, got %s", total)
	}
}

func TestNewOrder_TrimsCustomerName(t *testing.T) {
	order, err := NewOrder("  Alice  ", []*OrderLineItem{makeItem(t, "1", "Widget", 1, "10.00")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.CustomerName != "Alice" {
		t.Errorf("expected trimmed name, got %q", order.CustomerName)
	}
}

func TestNewOrder_BlankCustomerRejected(t *testing.T) {
	for _, name := range []string{"", "   "} {
		if _, err := NewOrder(name, []*OrderLineItem{makeItem(t, "1", "Widget", 1, "10.00")}); err == nil {
			t.Errorf("expected error for customer name %q", name)
		}
	}
}

func TestNewOrder_NoItemsRejected(t *testing.T) {
	if _, err := NewOrder("Alice", nil); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestNewOrder_MinimumTotal(t *testing.T) {
	// Exactly $10.00 passes, $9.99 fails.
	if _, err := NewOrder("Alice", []*OrderLineItem{makeItem(t, "1", "Widget", 1, "10.00")}); err != nil {
		t.Errorf("order at exactly the minimum must succeed: %v", err)
	}

	_, err := NewOrder("Alice", []*OrderLineItem{makeItem(t, "1", "Widget", 1, "9.99")})
	if err == nil {
		t.Fatal("expected error below minimum")
	}
	if !strings.Contains(err.Error(), "below minimum") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestNewOrder_MaxLineItems(t *testing.T) {
	items := func(n int) []*OrderLineItem {
		out := make([]*OrderLineItem, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, makeItem(t, "1", "Widget", 1, "1.00"))
		}
		return out
	}

	if _, err := NewOrder("Alice", items(50)); err != nil {
		t.Errorf("50 items must be accepted: %v", err)
	}
	if _, err := NewOrder("Alice", items(51)); err == nil {
		t.Error("51 items must be rejected")
	}
}

// --- line item shipping ---

func TestLineItem_Ship(t *testing.T) {
	item := makeItem(t, "1", "Widget", 10, "15.00")

	if err := item.Ship(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := item.Ship(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ShippedQuantity() != 7 || item.RemainingQuantity() != 3 {
		t.Errorf("got shipped=%d remaining=%d", item.ShippedQuantity(), item.RemainingQuantity())
	}
	if item.IsFullyShipped() {
		t.Error("item with remaining quantity is not fully shipped")
	}
}

func TestLineItem_ShipNonPositive(t *testing.T) {
	item := makeItem(t, "1", "Widget", 10, "15.00")
	for _, qty := range []int{0, -1} {
		if err := item.Ship(qty); err == nil {
			t.Errorf("expected error for quantity %d", qty)
		}
	}
}

func TestLineItem_ShipMoreThanRemaining(t *testing.T) {
	item := makeItem(t, "1", "Widget", 5, "15.00")
	if err := item.Ship(3); err != nil {
		t.Fatalf("Ship: %v", err)
	}

	err := item.Ship(3)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "only 2 remaining") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestLineItem_LineTotalUsesOrderedQuantity(t *testing.T) {
	item := makeItem(t, "1", "Widget", 10, "15.00")
	before := item.LineTotal()

	if err := item.Ship(5); err != nil {
		t.Fatalf("Ship: %v", err)
	}
	if !item.LineTotal().Equal(before) {
		t.Errorf("line total changed after shipping: %s vs %s", item.LineTotal(), before)
	}
	if !item.LineTotal().Equal(MustMoney("150.00")) {
		t.Errorf("expected $150.00, got %s", item.LineTotal())
	}
}

// --- state machine ---

func TestOrder_Confirm(t *testing.T) {
	order, err := NewOrder("Alice", []*OrderLineItem{makeItem(t, "1", "Widget", 1, "10.00")})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if err := order.Confirm(); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if order.Status != OrderStatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", order.Status)
	}
}

func TestOrder_ConfirmNonDraftRejected(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusConfirmed, OrderStatusPartiallyFulfilled, OrderStatusFulfilled, OrderStatusCancelled} {
		order := RestoreOrder(1, "Alice", []*OrderLineItem{makeItem(t, "1", "Widget", 1, "10.00")}, status, time.Now().UTC())
		err := order.Confirm()
		if err == nil {
			t.Errorf("confirm from %s must fail", status)
			continue
		}
		if !strings.Contains(err.Error(), string(status)) {
			t.Errorf("message should name current status %s: %v", status, err)
		}
	}
}

func TestOrder_FulfillItemsPartial(t *testing.T) {
	order := confirmedOrder(t,
		makeItem(t, "1", "Widget", 10, "15.00"),
		makeItem(t, "2", "Gadget", 5, "25.00"),
	)

	if err := order.FulfillItems(map[string]int{"1": 5, "2": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != OrderStatusPartiallyFulfilled {
		t.Errorf("expected PARTIALLY_FULFILLED, got %s", order.Status)
	}
	if order.Items[0].ShippedQuantity() != 5 || order.Items[1].RemainingQuantity() != 2 {
		t.Errorf("shipment tracking wrong: %+v", order.Items)
	}
	if !order.HasShipments() {
		t.Error("HasShipments must be true after shipping")
	}
}

func TestOrder_FulfillItemsCompletes(t *testing.T) {
	order := confirmedOrder(t,
		makeItem(t, "1", "Widget", 10, "15.00"),
		makeItem(t, "2", "Gadget", 5, "25.00"),
	)

	if err := order.FulfillItems(map[string]int{"1": 10, "2": 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != OrderStatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", order.Status)
	}
}

func TestOrder_MultiStepFulfillment(t *testing.T) {
	order := confirmedOrder(t,
		makeItem(t, "1", "Widget", 10, "15.00"),
		makeItem(t, "2", "Gadget", 5, "25.00"),
	)

	if err := order.FulfillItems(map[string]int{"1": 3, "2": 2}); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if order.Status != OrderStatusPartiallyFulfilled {
		t.Fatalf("expected PARTIALLY_FULFILLED, got %s", order.Status)
	}

	if err := order.FulfillItems(map[string]int{"1": 7, "2": 3}); err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if order.Status != OrderStatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", order.Status)
	}
}

func TestOrder_FulfillItemsWrongStates(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusDraft, OrderStatusCancelled} {
		order := RestoreOrder(1, "Bob", []*OrderLineItem{makeItem(t, "1", "Widget", 5, "10.00")}, status, time.Now().UTC())
		err := order.FulfillItems(map[string]int{"1": 3})
		if err == nil {
			t.Errorf("fulfill from %s must fail", status)
			continue
		}
		if !strings.Contains(err.Error(), string(status)) {
			t.Errorf("message should name current status %s: %v", status, err)
		}
	}
}

func TestOrder_FulfillItemsAlreadyFulfilled(t *testing.T) {
	order := confirmedOrder(t, makeItem(t, "1", "Widget", 5, "10.00"))
	if err := order.FulfillItems(map[string]int{"1": 5}); err != nil {
		t.Fatalf("FulfillItems: %v", err)
	}

	err := order.FulfillItems(map[string]int{"1": 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "already fulfilled") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestOrder_FulfillItemsEmptyMapRejected(t *testing.T) {
	order := confirmedOrder(t, makeItem(t, "1", "Widget", 5, "10.00"))
	if err := order.FulfillItems(map[string]int{}); err == nil {
		t.Fatal("expected error for empty quantities")
	}
}

func TestOrder_FulfillItemsUnknownProduct(t *testing.T) {
	order := confirmedOrder(t, makeItem(t, "1", "Widget", 5, "10.00"))
	err := order.FulfillItems(map[string]int{"99": 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "not found in this order") {
		t.Errorf("unexpected message: %v", err)
	}
}

// A bad quantity anywhere in the map must leave every line untouched.
func TestOrder_FulfillItemsPreValidatesAllLines(t *testing.T) {
	order := confirmedOrder(t,
		makeItem(t, "1", "Widget", 10, "15.00"),
		makeItem(t, "2", "Gadget", 5, "25.00"),
	)

	if err := order.FulfillItems(map[string]int{"1": 5, "2": 99}); err == nil {
		t.Fatal("expected error for excessive quantity")
	}
	if order.Items[0].ShippedQuantity() != 0 {
		t.Errorf("Widget shipped despite Gadget failing validation: %d", order.Items[0].ShippedQuantity())
	}
	if order.Status != OrderStatusConfirmed {
		t.Errorf("status must be unchanged, got %s", order.Status)
	}
}

func TestOrder_FulfillShipsEverythingRemaining(t *testing.T) {
	order := confirmedOrder(t, makeItem(t, "1", "Widget", 5, "10.00"))
	if err := order.Fulfill(); err != nil {
		t.Fatalf("Fulfill: %v", err)
	}
	if order.Status != OrderStatusFulfilled {
		t.Errorf("expected FULFILLED, got %s", order.Status)
	}

	// Nothing left to ship: behaves like an empty quantities map.
	if err := order.Fulfill(); err == nil {
		t.Error("second Fulfill must fail")
	}
}

func TestOrder_Cancel(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusDraft, OrderStatusConfirmed, OrderStatusPartiallyFulfilled} {
		order := RestoreOrder(1, "Bob", []*OrderLineItem{makeItem(t, "1", "Widget", 5, "10.00")}, status, time.Now().UTC())
		if err := order.Cancel(); err != nil {
			t.Errorf("cancel from %s: %v", status, err)
			continue
		}
		if order.Status != OrderStatusCancelled {
			t.Errorf("expected CANCELLED, got %s", order.Status)
		}
	}
}

func TestOrder_CancelTerminalStatesRejected(t *testing.T) {
	cancelled := RestoreOrder(1, "Bob", []*OrderLineItem{makeItem(t, "1", "Widget", 5, "10.00")}, OrderStatusCancelled, time.Now().UTC())
	if err := cancelled.Cancel(); err == nil || !strings.Contains(err.Error(), "already cancelled") {
		t.Errorf("expected already-cancelled error, got %v", err)
	}

	fulfilled := RestoreOrder(1, "Bob", []*OrderLineItem{makeItem(t, "1", "Widget", 5, "10.00")}, OrderStatusFulfilled, time.Now().UTC())
	if err := fulfilled.Cancel(); err == nil || !strings.Contains(err.Error(), "FULFILLED") {
		t.Errorf("expected cannot-cancel-fulfilled error, got %v", err)
	}
}

func TestOrder_CancelPreservesShipments(t *testing.T) {
	order := confirmedOrder(t, makeItem(t, "1", "Widget", 10, "15.00"))
	if err := order.FulfillItems(map[string]int{"1": 4}); err != nil {
		t.Fatalf("FulfillItems: %v", err)
	}
	if err := order.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if order.Items[0].ShippedQuantity() != 4 {
		t.Errorf("shipped quantity must survive cancellation, got %d", order.Items[0].ShippedQuantity())
	}
}
