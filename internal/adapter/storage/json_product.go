package storage

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rl1809/oms/internal/core/domain"
)

// productRecord is the on-disk shape. Prices are exact decimal strings,
// never floats, so amounts round-trip without drift.
type productRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

// JSONProductRepository is the file-backed port.ProductRepository.
type JSONProductRepository struct {
	file *jsonFile
}

func NewJSONProductRepository(path string) (*JSONProductRepository, error) {
	file, err := newJSONFile(path)
	if err != nil {
		return nil, err
	}
	return &JSONProductRepository{file: file}, nil
}

func (r *JSONProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == productID {
			return recordToProduct(rec)
		}
	}
	return nil, nil
}

func (r *JSONProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Name, name) {
			return recordToProduct(rec)
		}
	}
	return nil, nil
}

func (r *JSONProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for _, rec := range records {
		p, err := recordToProduct(rec)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *JSONProductRepository) Save(ctx context.Context, product *domain.Product) error {
	records, err := r.loadRecords()
	if err != nil {
		return err
	}
	rec := productToRecord(product)
	replaced := false
	for i := range records {
		if records[i].ID == product.ID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	return r.file.persist(records)
}

func (r *JSONProductRepository) loadRecords() ([]productRecord, error) {
	var records []productRecord
	if err := r.file.load(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func productToRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.AmountString(),
		Currency: p.Price.Currency(),
	}
}

func recordToProduct(rec productRecord) (*domain.Product, error) {
	amount, err := decimal.NewFromString(rec.Price)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoney(amount, rec.Currency)
	if err != nil {
		return nil, err
	}
	return &domain.Product{ID: rec.ID, Name: rec.Name, Price: price}, nil
}
