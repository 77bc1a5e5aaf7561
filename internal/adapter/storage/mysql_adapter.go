package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/oms/internal/core/domain"
)

// MySQLAdapter implements all three repository ports over one *sql.DB.
// Monetary amounts are stored as DECIMAL(12,2) and scanned as strings;
// they never pass through float64.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(32) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(12,2) NOT NULL,
			currency CHAR(3) NOT NULL DEFAULT 'USD'
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			product_id VARCHAR(32) PRIMARY KEY,
			product_name VARCHAR(255) NOT NULL,
			total_quantity INT NOT NULL,
			reserved_quantity INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL,
			status VARCHAR(32) NOT NULL,
			created_at DATETIME(6) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id BIGINT NOT NULL,
			position INT NOT NULL,
			product_id VARCHAR(32) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(12,2) NOT NULL,
			currency CHAR(3) NOT NULL DEFAULT 'USD',
			shipped_quantity INT NOT NULL DEFAULT 0,
			PRIMARY KEY (order_id, position)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- ProductRepository ---

func (m *MySQLAdapter) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, currency FROM products WHERE id = ?`, productID)
	return scanProduct(row)
}

func (m *MySQLAdapter) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	// Default MySQL collations compare case-insensitively, which is
	// exactly the lookup contract.
	row := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, currency FROM products WHERE name = ? LIMIT 1`, name)
	return scanProduct(row)
}

func (m *MySQLAdapter) ListAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price, currency FROM products ORDER BY CAST(id AS UNSIGNED)`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) Save(ctx context.Context, product *domain.Product) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, currency)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), price = VALUES(price), currency = VALUES(currency)`,
		product.ID, product.Name, product.Price.AmountString(), product.Price.Currency(),
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var id, name, price, currency string
	err := row.Scan(&id, &name, &price, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %s: bad price %q: %w", id, price, err)
	}
	money, err := domain.NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	return &domain.Product{ID: id, Name: name, Price: money}, nil
}

// --- InventoryRepository ---

func (m *MySQLAdapter) GetByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := m.db.QueryRowContext(ctx, `
		SELECT product_id, product_name, total_quantity, reserved_quantity
		FROM inventory WHERE product_id = ?`, productID,
	).Scan(&item.ProductID, &item.ProductName, &item.Total, &item.Reserved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	return &item, nil
}

func (m *MySQLAdapter) ListAllInventory(ctx context.Context) ([]*domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, product_name, total_quantity, reserved_quantity
		FROM inventory ORDER BY CAST(product_id AS UNSIGNED)`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var items []*domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Total, &item.Reserved); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) SaveInventory(ctx context.Context, item *domain.InventoryItem) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, product_name, total_quantity, reserved_quantity)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			product_name = VALUES(product_name),
			total_quantity = VALUES(total_quantity),
			reserved_quantity = VALUES(reserved_quantity)`,
		item.ProductID, item.ProductName, item.Total, item.Reserved,
	)
	if err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	return nil
}

// --- OrderRepository ---

func (m *MySQLAdapter) NextOrderID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	if err := m.db.QueryRowContext(ctx, `SELECT MAX(id) FROM orders`).Scan(&max); err != nil {
		return 0, fmt.Errorf("next order id: %w", err)
	}
	return max.Int64 + 1, nil
}

func (m *MySQLAdapter) GetOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	var (
		customerName string
		status       string
		createdAt    time.Time
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT customer_name, status, created_at FROM orders WHERE id = ?`, orderID,
	).Scan(&customerName, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, unit_price, currency, shipped_quantity
		FROM order_items WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []*domain.OrderLineItem
	for rows.Next() {
		var (
			productID, productName string
			quantity, shipped      int
			unitPrice, currency    string
		)
		if err := rows.Scan(&productID, &productName, &quantity, &unitPrice, &currency, &shipped); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		amount, err := decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %d: bad unit price %q: %w", orderID, unitPrice, err)
		}
		price, err := domain.NewMoney(amount, currency)
		if err != nil {
			return nil, err
		}
		qty, err := domain.NewQuantity(quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.RestoreOrderLineItem(productID, productName, qty, price, shipped))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return domain.RestoreOrder(orderID, customerName, items, domain.OrderStatus(status), createdAt.UTC()), nil
}

// SaveOrder writes the order header and replaces its line items inside
// one transaction; id allocation happens in the same transaction, which
// closes the MAX(id) race for this backend.
func (m *MySQLAdapter) SaveOrder(ctx context.Context, order *domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if order.ID == 0 {
		var max sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM orders FOR UPDATE`).Scan(&max); err != nil {
			return fmt.Errorf("next order id: %w", err)
		}
		order.ID = max.Int64 + 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, status, created_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE customer_name = VALUES(customer_name), status = VALUES(status)`,
		order.ID, order.CustomerName, string(order.Status), order.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	for i, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, product_name, quantity, unit_price, currency, shipped_quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, item.ProductID, item.ProductName, item.Quantity.Value(),
			item.UnitPrice.AmountString(), item.UnitPrice.Currency(), item.ShippedQuantity(),
		)
		if err != nil {
			return fmt.Errorf("save order item: %w", err)
		}
	}

	return tx.Commit()
}

// Typed views so one adapter can satisfy the three ports without
// method-name collisions on the shared receiver.

type MySQLProductRepository struct{ *MySQLAdapter }
type MySQLInventoryRepository struct{ *MySQLAdapter }
type MySQLOrderRepository struct{ *MySQLAdapter }

func (m *MySQLAdapter) Products() *MySQLProductRepository {
	return &MySQLProductRepository{m}
}

func (m *MySQLAdapter) Inventory() *MySQLInventoryRepository {
	return &MySQLInventoryRepository{m}
}

func (m *MySQLAdapter) Orders() *MySQLOrderRepository {
	return &MySQLOrderRepository{m}
}

func (r *MySQLInventoryRepository) ListAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	return r.ListAllInventory(ctx)
}

func (r *MySQLInventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	return r.SaveInventory(ctx, item)
}

func (r *MySQLOrderRepository) NextID(ctx context.Context) (int64, error) {
	return r.NextOrderID(ctx)
}

func (r *MySQLOrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return r.GetOrderByID(ctx, orderID)
}

func (r *MySQLOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.SaveOrder(ctx, order)
}
