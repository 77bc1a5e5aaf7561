package service

import (
	"context"

	"github.com/rl1809/oms/internal/core/domain"
	"github.com/rl1809/oms/internal/port"
)

// InventoryService manages stock levels outside the order lifecycle.
type InventoryService struct {
	inventory port.InventoryRepository
	products  port.ProductRepository
}

func NewInventoryService(inventory port.InventoryRepository, products port.ProductRepository) *InventoryService {
	return &InventoryService{inventory: inventory, products: products}
}

// Set upserts the total stock quantity for a product, resolved by name.
// An existing record keeps its reservations, so the new total may not
// undercut what confirmed orders already hold.
func (s *InventoryService) Set(ctx context.Context, productName string, quantity int) error {
	if quantity < 0 {
		return domain.Validationf("inventory quantity cannot be negative, got %d", quantity)
	}

	product, err := s.products.GetByName(ctx, productName)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFoundf("product not found: %q", productName)
	}

	existing, err := s.inventory.GetByProductID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		if quantity < existing.Reserved {
			return domain.Validationf("cannot set %s inventory to %d: %d currently reserved",
				existing.ProductName, quantity, existing.Reserved)
		}
		existing.Total = quantity
		return s.inventory.Save(ctx, existing)
	}

	return s.inventory.Save(ctx, &domain.InventoryItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Total:       quantity,
	})
}

// List returns every inventory record for display.
func (s *InventoryService) List(ctx context.Context) ([]InventoryLineDTO, error) {
	items, err := s.inventory.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]InventoryLineDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, InventoryLineDTO{
			ProductName: item.ProductName,
			Total:       item.Total,
			Reserved:    item.Reserved,
			Available:   item.Available(),
		})
	}
	return lines, nil
}
