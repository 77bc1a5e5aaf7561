package storage

import (
	"context"

	"github.com/rl1809/oms/internal/core/domain"
)

type inventoryRecord struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	TotalQuantity    int    `json:"total_quantity"`
	ReservedQuantity int    `json:"reserved_quantity"`
}

// JSONInventoryRepository is the file-backed port.InventoryRepository.
type JSONInventoryRepository struct {
	file *jsonFile
}

func NewJSONInventoryRepository(path string) (*JSONInventoryRepository, error) {
	file, err := newJSONFile(path)
	if err != nil {
		return nil, err
	}
	return &JSONInventoryRepository{file: file}, nil
}

func (r *JSONInventoryRepository) GetByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ProductID == productID {
			return recordToInventory(rec), nil
		}
	}
	return nil, nil
}

func (r *JSONInventoryRepository) ListAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}
	items := make([]*domain.InventoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, recordToInventory(rec))
	}
	return items, nil
}

func (r *JSONInventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	records, err := r.loadRecords()
	if err != nil {
		return err
	}
	rec := inventoryRecord{
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		TotalQuantity:    item.Total,
		ReservedQuantity: item.Reserved,
	}
	replaced := false
	for i := range records {
		if records[i].ProductID == item.ProductID {
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

func (r *JSONInventoryRepository) loadRecords() ([]inventoryRecord, error) {
	var records []inventoryRecord
	if err := r.file.load(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func recordToInventory(rec inventoryRecord) *domain.InventoryItem {
	return &domain.InventoryItem{
		ProductID:   rec.ProductID,
		ProductName: rec.ProductName,
		Total:       rec.TotalQuantity,
		Reserved:    rec.ReservedQuantity,
	}
}
