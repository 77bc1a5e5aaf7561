package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/oms/internal/core/domain"
)

type orderItemRecord struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	Currency        string `json:"currency"`
	ShippedQuantity int    `json:"shipped_quantity"`
}

type orderRecord struct {
	ID           int64             `json:"id"`
	CustomerName string            `json:"customer_name"`
	Status       string            `json:"status"`
	CreatedAt    string            `json:"created_at"`
	Items        []orderItemRecord `json:"items"`
}

// JSONOrderRepository is the file-backed port.OrderRepository.
type JSONOrderRepository struct {
	file *jsonFile
}

func NewJSONOrderRepository(path string) (*JSONOrderRepository, error) {
	file, err := newJSONFile(path)
	if err != nil {
		return nil, err
	}
	return &JSONOrderRepository{file: file}, nil
}

func (r *JSONOrderRepository) NextID(ctx context.Context) (int64, error) {
	records, err := r.loadRecords()
	if err != nil {
		return 0, err
	}
	var max int64
	for _, rec := range records {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max + 1, nil
}

func (r *JSONOrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	records, err := r.loadRecords()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == orderID {
			return recordToOrder(rec)
		}
	}
	return nil, nil
}

func (r *JSONOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	records, err := r.loadRecords()
	if err != nil {
		return err
	}

	if order.ID == 0 {
		id, err := r.NextID(ctx)
		if err != nil {
			return err
		}
		order.ID = id
	}

	rec := orderToRecord(order)
	replaced := false
	for i := range records {
		if records[i].ID == order.ID {
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

func (r *JSONOrderRepository) loadRecords() ([]orderRecord, error) {
	var records []orderRecord
	if err := r.file.load(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func orderToRecord(order *domain.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity.Value(),
			UnitPrice:       item.UnitPrice.AmountString(),
			Currency:        item.UnitPrice.Currency(),
			ShippedQuantity: item.ShippedQuantity(),
		})
	}
	return orderRecord{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt.UTC().Format(time.RFC3339Nano),
		Items:        items,
	}
}

func recordToOrder(rec orderRecord) (*domain.Order, error) {
	items := make([]*domain.OrderLineItem, 0, len(rec.Items))
	for _, ir := range rec.Items {
		amount, err := decimal.NewFromString(ir.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %d: bad unit price %q: %w", rec.ID, ir.UnitPrice, err)
		}
		price, err := domain.NewMoney(amount, ir.Currency)
		if err != nil {
			return nil, err
		}
		qty, err := domain.NewQuantity(ir.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.RestoreOrderLineItem(ir.ProductID, ir.ProductName, qty, price, ir.ShippedQuantity))
	}

	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("order %d: bad created_at %q: %w", rec.ID, rec.CreatedAt, err)
	}

	return domain.RestoreOrder(rec.ID, rec.CustomerName, items, domain.OrderStatus(rec.Status), createdAt), nil
}
