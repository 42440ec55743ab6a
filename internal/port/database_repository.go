package port

import (
	"context"

	"github.com/rl1809/checkout/internal/core/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, p domain.Product) error

	// GetProduct returns domain.ErrProductNotFound when the id is unknown.
	GetProduct(ctx context.Context, id string) (domain.Product, error)

	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)

	CountProducts(ctx context.Context) (int, error)

	// DecrementInventory is a conditional update that fails with
	// domain.ErrInsufficientInventory instead of letting stock go negative.
	DecrementInventory(ctx context.Context, productID string, quantity int) error
}

type OrderRepository interface {
	// CreateOrder persists the order and its line items in one transaction.
	// When the order status is approved it also decrements product inventory
	// conditionally; a shortfall aborts the whole transaction with
	// domain.ErrInsufficientInventory. A duplicate order number surfaces as
	// domain.ErrOrderNumberConflict so the caller can retry with a new one.
	CreateOrder(ctx context.Context, o domain.Order) error

	// GetOrder returns domain.ErrOrderNotFound when the order number is unknown.
	GetOrder(ctx context.Context, orderNumber string) (domain.Order, error)

	// ListOrders returns all orders, newest first.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// MarkNotified idempotently sets the notification-sent flag and returns
	// the updated order.
	MarkNotified(ctx context.Context, orderNumber string) (domain.Order, error)
}
