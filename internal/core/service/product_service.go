package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rl1809/oms/internal/core/domain"
	"github.com/rl1809/oms/internal/port"
)

// ProductService manages the catalog.
type ProductService struct {
	products port.ProductRepository
}

func NewProductService(products port.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Add creates a catalog entry with the next auto-incremented id.
//
// The uniqueness check is a case-sensitive exact match against existing
// names, while name lookups elsewhere (GetByName) are case-insensitive.
// The asymmetry is intentional: "Widget" and "widget" can coexist in the
// catalog, but a search for either finds one.
func (s *ProductService) Add(ctx context.Context, name, price string) (ProductDTO, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ProductDTO{}, domain.Validationf("product name is required")
	}

	all, err := s.products.ListAll(ctx)
	if err != nil {
		return ProductDTO{}, err
	}
	for _, p := range all {
		if p.Name == trimmed {
			return ProductDTO{}, domain.Validationf("product %q already exists", trimmed)
		}
	}

	money, err := domain.ParseMoney(price)
	if err != nil {
		return ProductDTO{}, err
	}

	product := &domain.Product{ID: nextProductID(all), Name: trimmed, Price: money}
	if err := s.products.Save(ctx, product); err != nil {
		return ProductDTO{}, err
	}
	return productToDTO(product), nil
}

// UpdatePrice changes a product's catalog price. Existing orders keep
// their snapshots.
func (s *ProductService) UpdatePrice(ctx context.Context, productID, price string) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFoundf("product with id %q not found", productID)
	}

	money, err := domain.ParseMoney(price)
	if err != nil {
		return err
	}
	if err := product.UpdatePrice(money); err != nil {
		return err
	}
	return s.products.Save(ctx, product)
}

// List returns the whole catalog.
func (s *ProductService) List(ctx context.Context) ([]ProductDTO, error) {
	all, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(all))
	for _, p := range all {
		dtos = append(dtos, productToDTO(p))
	}
	return dtos, nil
}

// nextProductID is max existing numeric id + 1, or "1" for an empty
// catalog. Single-writer assumption: see port docs.
func nextProductID(products []*domain.Product) string {
	max := 0
	for _, p := range products {
		if n, err := strconv.Atoi(p.ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
