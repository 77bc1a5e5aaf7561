package port

import (
	"context"

	"github.com/rl1809/oms/internal/core/domain"
)

// Repository ports for the three aggregates. Implementations provide
// read-then-write semantics for a single logical writer; they make no
// isolation guarantees across concurrent callers.
//
// Lookups return (nil, nil) when the entity does not exist; the caller
// decides whether absence is an error.

type ProductRepository interface {
	// GetByID returns a product by id, or nil if not found.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// GetByName matches the product name case-insensitively.
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// ListAll returns every product in the catalog.
	ListAll(ctx context.Context) ([]*domain.Product, error)

	// Save upserts by product id.
	Save(ctx context.Context, product *domain.Product) error
}

type OrderRepository interface {
	// NextID returns the next unique order id.
	NextID(ctx context.Context) (int64, error)

	// GetByID returns an order by id, or nil if not found.
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)

	// Save upserts the order, assigning an id via NextID when the
	// order has none yet.
	Save(ctx context.Context, order *domain.Order) error
}

type InventoryRepository interface {
	// GetByProductID returns the inventory record for a product, or nil.
	GetByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error)

	// ListAll returns every inventory record.
	ListAll(ctx context.Context) ([]*domain.InventoryItem, error)

	// Save upserts by product id.
	Save(ctx context.Context, item *domain.InventoryItem) error
}

// AvailabilityCache mirrors available stock into a fast store so the
// HTTP surface can answer availability reads without touching the
// repository, and dedupes order submissions by request id.
type AvailabilityCache interface {
	// SetAvailable publishes the current available quantity for a product.
	SetAvailable(ctx context.Context, productID string, available int) error

	// GetAvailable returns the cached availability; ok is false on a miss.
	GetAvailable(ctx context.Context, productID string) (available int, ok bool, err error)

	// SetIdempotency records a request key, returning false if it was
	// already seen.
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
