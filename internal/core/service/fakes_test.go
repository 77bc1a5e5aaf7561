package service

import (
	"context"
	"strings"

	"github.com/rl1809/oms/internal/core/domain"
)

// In-memory fakes for the repository ports. No I/O, no side effects.

type fakeOrderRepo struct {
	store  map[int64]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{store: make(map[int64]*domain.Order), nextID: 1}
}

func (r *fakeOrderRepo) NextID(ctx context.Context) (int64, error) {
	return r.nextID, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return r.store[orderID], nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	}
	r.store[order.ID] = order
	return nil
}

type fakeProductRepo struct {
	store map[string]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{store: make(map[string]*domain.Product)}
	for _, p := range products {
		r.store[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	return r.store[productID], nil
}

func (r *fakeProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, p := range r.store {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.store))
	for _, p := range r.store {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	r.store[product.ID] = product
	return nil
}

type fakeInventoryRepo struct {
	store map[string]*domain.InventoryItem
	saves int
}

func newFakeInventoryRepo(items ...*domain.InventoryItem) *fakeInventoryRepo {
	r := &fakeInventoryRepo{store: make(map[string]*domain.InventoryItem)}
	for _, item := range items {
		r.store[item.ProductID] = item
	}
	return r
}

func (r *fakeInventoryRepo) GetByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	return r.store[productID], nil
}

func (r *fakeInventoryRepo) ListAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	out := make([]*domain.InventoryItem, 0, len(r.store))
	for _, item := range r.store {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeInventoryRepo) Save(ctx context.Context, item *domain.InventoryItem) error {
	r.store[item.ProductID] = item
	r.saves++
	return nil
}

// --- shared test data helpers ---

func mustQuantity(v int) domain.Quantity {
	q, err := domain.NewQuantity(v)
	if err != nil {
		panic(err)
	}
	return q
}

func lineItem(id, name string, qty int, price string) *domain.OrderLineItem {
	return domain.NewOrderLineItem(id, name, mustQuantity(qty), domain.MustMoney(price))
}

func stock(id, name string, total, reserved int) *domain.InventoryItem {
	return &domain.InventoryItem{ProductID: id, ProductName: name, Total: total, Reserved: reserved}
}
