package service

import (
	"github.com/rl1809/oms/internal/core/domain"
)

// DTOs cross the boundary between the application layer and whatever
// renders them (CLI tables, JSON responses). Money is pre-formatted so
// callers never touch decimals.

// OrderItemSpec is the input side: what the customer asked for.
type OrderItemSpec struct {
	ProductName string
	Quantity    int
}

type OrderLineItemDTO struct {
	ProductName       string `json:"product_name"`
	Quantity          int    `json:"quantity"`
	ShippedQuantity   int    `json:"shipped_quantity"`
	RemainingQuantity int    `json:"remaining_quantity"`
	UnitPrice         string `json:"unit_price"`
	LineTotal         string `json:"line_total"`
}

type OrderDTO struct {
	ID           int64              `json:"id"`
	CustomerName string             `json:"customer_name"`
	Status       string             `json:"status"`
	Items        []OrderLineItemDTO `json:"items"`
	Total        string             `json:"total"`
	CreatedAt    string             `json:"created_at"`
	HasShipments bool               `json:"has_shipments"`
}

type ProductDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type InventoryLineDTO struct {
	ProductName string `json:"product_name"`
	Total       int    `json:"total"`
	Reserved    int    `json:"reserved"`
	Available   int    `json:"available"`
}

const createdAtLayout = "2006-01-02 15:04 UTC"

func orderToDTO(order *domain.Order) (OrderDTO, error) {
	items := make([]OrderLineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineItemDTO{
			ProductName:       item.ProductName,
			Quantity:          item.Quantity.Value(),
			ShippedQuantity:   item.ShippedQuantity(),
			RemainingQuantity: item.RemainingQuantity(),
			UnitPrice:         item.UnitPrice.String(),
			LineTotal:         item.LineTotal().String(),
		})
	}

	total, err := order.Total()
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		Items:        items,
		Total:        total.String(),
		CreatedAt:    order.CreatedAt.UTC().Format(createdAtLayout),
		HasShipments: order.HasShipments(),
	}, nil
}

func productToDTO(p *domain.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Name: p.Name, Price: p.Price.String()}
}
