package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/checkout/internal/core/domain"
	"github.com/rl1809/checkout/internal/core/payment"
	"github.com/rl1809/checkout/internal/core/pricing"
	"github.com/rl1809/checkout/internal/core/validate"
	"github.com/rl1809/checkout/internal/port"
)

// maxOrderNumberAttempts bounds regenerate-and-retry on a unique-index
// collision before the failure is surfaced as a persistence error.
const maxOrderNumberAttempts = 5

type OrderService struct {
	log      *slog.Logger
	products port.ProductRepository
	orders   port.OrderRepository
	cache    port.InventoryCache
}

func NewOrderService(log *slog.Logger, products port.ProductRepository, orders port.OrderRepository, cache port.InventoryCache) *OrderService {
	return &OrderService{
		log:      log,
		products: products,
		orders:   orders,
		cache:    cache,
	}
}

type ItemInput struct {
	ProductID        string
	Quantity         int
	SelectedVariants []domain.SelectedVariant
	Image            string
}

type CreateOrderInput struct {
	Items        []ItemInput
	CustomerInfo domain.CustomerInfo
	PaymentInfo  domain.PaymentInfo
}

// Create runs the submission pipeline: validate, snapshot products, price,
// reserve stock, simulate payment, persist. Inventory is durably decremented
// only for approved orders; declined and failed outcomes release their
// reservation so stock is net-unchanged and the order is still recorded.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, &validate.FieldError{Field: "items", Message: "at least one item is required"}
	}
	now := time.Now().UTC()
	if err := validate.PaymentInfo(in.PaymentInfo, now); err != nil {
		return domain.Order{}, err
	}
	if err := validate.CustomerInfo(in.CustomerInfo); err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return domain.Order{}, &validate.FieldError{Field: "quantity", Message: "quantity must be a positive integer"}
		}
		p, err := s.products.GetProduct(ctx, it.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if !p.IsActive {
			return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, p.Name)
		}
		if p.Inventory < it.Quantity {
			return domain.Order{}, fmt.Errorf("%w for %s", domain.ErrInsufficientInventory, p.Name)
		}
		image := it.Image
		if image == "" {
			image = p.Image
		}
		items = append(items, domain.LineItem{
			ProductID:        p.ID,
			ProductName:      p.Name,
			Price:            p.Price,
			Quantity:         it.Quantity,
			SelectedVariants: it.SelectedVariants,
			Image:            image,
			Subtotal:         p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}

	totals := pricing.Compute(items)

	// Reservation is the critical section: the conditional decrement in the
	// cache is what keeps two concurrent orders from both taking the last
	// unit.
	reserved, err := s.reserveAll(ctx, items)
	if err != nil {
		s.releaseAll(ctx, reserved)
		return domain.Order{}, err
	}

	result := payment.Simulate(in.PaymentInfo.CVV)

	order := domain.Order{
		ID:           uuid.NewString(),
		Items:        items,
		CustomerInfo: in.CustomerInfo,
		PaymentInfo: domain.PaymentInfo{
			CardNumber: domain.MaskCardNumber(in.PaymentInfo.CardNumber),
			ExpiryDate: in.PaymentInfo.ExpiryDate,
			CVV:        in.PaymentInfo.CVV,
		},
		Total:         totals.Total,
		Status:        result.Status,
		TransactionID: result.TransactionID,
		Notes:         result.ErrorMessage,
		CreatedAt:     now,
	}

	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = NewOrderNumber()
		err = s.orders.CreateOrder(ctx, order)
		if !errors.Is(err, domain.ErrOrderNumberConflict) {
			break
		}
		s.log.Warn("order number collision, retrying", "order_number", order.OrderNumber, "attempt", attempt+1)
	}
	if err != nil {
		s.releaseAll(ctx, reserved)
		if errors.Is(err, domain.ErrInsufficientInventory) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	if result.Status != domain.OrderStatusApproved {
		// Payment did not go through: give the reservation back so the items
		// remain available for retry.
		s.releaseAll(ctx, reserved)
	}

	s.log.Info("order created",
		"order_number", order.OrderNumber,
		"status", order.Status,
		"total", order.Total.StringFixed(2),
	)
	return order, nil
}

func (s *OrderService) reserveAll(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, error) {
	reserved := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		ok, err := s.cache.ReserveStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return reserved, fmt.Errorf("reserve stock: %w", err)
		}
		if !ok {
			return reserved, fmt.Errorf("%w for %s", domain.ErrInsufficientInventory, item.ProductName)
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

func (s *OrderService) releaseAll(ctx context.Context, items []domain.LineItem) {
	for _, item := range items {
		if err := s.cache.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Error("stock release failed", "product_id", item.ProductID, "quantity", item.Quantity, "err", err)
		}
	}
}

func (s *OrderService) Get(ctx context.Context, orderNumber string) (domain.Order, error) {
	return s.orders.GetOrder(ctx, orderNumber)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) MarkNotified(ctx context.Context, orderNumber string) (domain.Order, error) {
	return s.orders.MarkNotified(ctx, orderNumber)
}

// NewOrderNumber derives the externally visible identifier from a random
// UUID; uniqueness is still enforced by the storage index.
func NewOrderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:20])
}
