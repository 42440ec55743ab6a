package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/checkout/internal/core/domain"
)

// mysqlDupEntry is the server error number for a unique-index violation.
const mysqlDupEntry = 1062

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the tables on first run.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			price DECIMAL(10,2) NOT NULL,
			image TEXT,
			variants JSON,
			inventory INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(36) PRIMARY KEY,
			order_number VARCHAR(32) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(32) NOT NULL,
			address VARCHAR(255) NOT NULL,
			city VARCHAR(128) NOT NULL,
			state VARCHAR(64) NOT NULL,
			zip_code VARCHAR(16) NOT NULL,
			card_number VARCHAR(32) NOT NULL,
			expiry_date VARCHAR(8) NOT NULL,
			cvv VARCHAR(8) NOT NULL,
			total DECIMAL(10,2) NOT NULL,
			status VARCHAR(16) NOT NULL,
			transaction_id VARCHAR(64) NULL,
			notes TEXT NULL,
			email_sent BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL,
			UNIQUE KEY uniq_order_number (order_number),
			KEY idx_orders_created_at (created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(36) NOT NULL,
			product_id VARCHAR(36) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			quantity INT NOT NULL,
			selected_variants JSON,
			image TEXT,
			subtotal DECIMAL(10,2) NOT NULL,
			KEY idx_order_items_order_id (order_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) error {
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, image, variants, inventory, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Image, variants, p.Inventory, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, image, variants, inventory, is_active, created_at, updated_at
		FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, image, variants, inventory, is_active, created_at, updated_at
		FROM products`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// DecrementInventory is a single conditional update so stock can never go
// negative, even under concurrent calls.
func (m *MySQLAdapter) DecrementInventory(ctx context.Context, productID string, quantity int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET inventory = inventory - ?, updated_at = NOW(6)
		WHERE id = ? AND is_active = TRUE AND inventory >= ?`,
		quantity, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := m.GetProduct(ctx, productID); err != nil {
			return err
		}
		return domain.ErrInsufficientInventory
	}
	return nil
}

// CreateOrder writes the order and its line items in one transaction and,
// for approved orders only, applies the conditional inventory decrement per
// item. Any shortfall rolls the whole thing back; no partial order is ever
// visible.
func (m *MySQLAdapter) CreateOrder(ctx context.Context, o domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, full_name, email, phone, address, city, state, zip_code,
			card_number, expiry_date, cvv, total, status, transaction_id, notes, email_sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.OrderNumber,
		o.CustomerInfo.FullName, o.CustomerInfo.Email, o.CustomerInfo.Phone,
		o.CustomerInfo.Address, o.CustomerInfo.City, o.CustomerInfo.State, o.CustomerInfo.ZipCode,
		o.PaymentInfo.CardNumber, o.PaymentInfo.ExpiryDate, o.PaymentInfo.CVV,
		o.Total, o.Status, nullable(o.TransactionID), nullable(o.Notes), o.EmailSent, o.CreatedAt,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return domain.ErrOrderNumberConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		variants, err := json.Marshal(item.SelectedVariants)
		if err != nil {
			return fmt.Errorf("marshal selected variants: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, price, quantity, selected_variants, image, subtotal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, item.ProductID, item.ProductName, item.Price, item.Quantity, variants, item.Image, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if o.Status == domain.OrderStatusApproved {
		for _, item := range o.Items {
			result, err := tx.ExecContext(ctx, `
				UPDATE products
				SET inventory = inventory - ?, updated_at = NOW(6)
				WHERE id = ? AND inventory >= ?`,
				item.Quantity, item.ProductID, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("decrement inventory: %w", err)
			}
			rows, _ := result.RowsAffected()
			if rows == 0 {
				return domain.ErrInsufficientInventory
			}
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, orderNumber string) (domain.Order, error) {
	row := m.db.QueryRowContext(ctx, orderSelect+` WHERE order_number = ?`, orderNumber)
	o, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items, err = m.orderItems(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, orderSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = m.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (m *MySQLAdapter) MarkNotified(ctx context.Context, orderNumber string) (domain.Order, error) {
	// RowsAffected is 0 both for a missing order and for an already-set flag,
	// so existence is confirmed by the read that follows.
	if _, err := m.db.ExecContext(ctx, `UPDATE orders SET email_sent = TRUE WHERE order_number = ?`, orderNumber); err != nil {
		return domain.Order{}, fmt.Errorf("mark notified: %w", err)
	}
	return m.GetOrder(ctx, orderNumber)
}

const orderSelect = `
	SELECT id, order_number, full_name, email, phone, address, city, state, zip_code,
		card_number, expiry_date, cvv, total, status, transaction_id, notes, email_sent, created_at
	FROM orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var transactionID, notes sql.NullString
	err := row.Scan(
		&o.ID, &o.OrderNumber,
		&o.CustomerInfo.FullName, &o.CustomerInfo.Email, &o.CustomerInfo.Phone,
		&o.CustomerInfo.Address, &o.CustomerInfo.City, &o.CustomerInfo.State, &o.CustomerInfo.ZipCode,
		&o.PaymentInfo.CardNumber, &o.PaymentInfo.ExpiryDate, &o.PaymentInfo.CVV,
		&o.Total, &o.Status, &transactionID, &notes, &o.EmailSent, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.TransactionID = transactionID.String
	o.Notes = notes.String
	return o, nil
}

func (m *MySQLAdapter) orderItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, product_name, price, quantity, selected_variants, image, subtotal
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		var variants []byte
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Price, &item.Quantity, &variants, &item.Image, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if len(variants) > 0 {
			if err := json.Unmarshal(variants, &item.SelectedVariants); err != nil {
				return nil, fmt.Errorf("unmarshal selected variants: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var variants []byte
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &variants, &p.Inventory, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return domain.Product{}, fmt.Errorf("unmarshal variants: %w", err)
		}
	}
	return p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
