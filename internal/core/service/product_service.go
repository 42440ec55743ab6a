package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/checkout/internal/core/domain"
	"github.com/rl1809/checkout/internal/core/validate"
	"github.com/rl1809/checkout/internal/port"
)

var ErrAlreadySeeded = errors.New("products already exist")

// ProductService is the catalog collaborator: read-mostly, mutated only
// through the atomic inventory decrement.
type ProductService struct {
	log   *slog.Logger
	repo  port.ProductRepository
	cache port.InventoryCache
}

func NewProductService(log *slog.Logger, repo port.ProductRepository, cache port.InventoryCache) *ProductService {
	return &ProductService{log: log, repo: repo, cache: cache}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, true)
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.IsActive {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Name == "" {
		return domain.Product{}, &validate.FieldError{Field: "name", Message: "Product name is required"}
	}
	if p.Price.IsNegative() {
		return domain.Product{}, &validate.FieldError{Field: "price", Message: "Price cannot be negative"}
	}
	if p.Inventory < 0 {
		return domain.Product{}, &validate.FieldError{Field: "inventory", Message: "Inventory cannot be negative"}
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	if err := s.cache.SyncStock(ctx, p.ID, p.Inventory); err != nil {
		return domain.Product{}, fmt.Errorf("sync stock: %w", err)
	}
	s.log.Info("product created", "product_id", p.ID, "name", p.Name, "inventory", p.Inventory)
	return p, nil
}

// DecrementInventory applies the catalog-facing stock adjustment and then
// re-syncs the cache from the durable value.
func (s *ProductService) DecrementInventory(ctx context.Context, productID string, quantity int) (domain.Product, error) {
	if quantity <= 0 {
		return domain.Product{}, &validate.FieldError{Field: "quantity", Message: "quantity must be a positive integer"}
	}
	if err := s.repo.DecrementInventory(ctx, productID, quantity); err != nil {
		return domain.Product{}, err
	}
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.cache.SyncStock(ctx, p.ID, p.Inventory); err != nil {
		return domain.Product{}, fmt.Errorf("sync stock: %w", err)
	}
	return p, nil
}

// SyncAllStock pushes every product's durable inventory into the cache.
// Called at startup so reservations see current values.
func (s *ProductService) SyncAllStock(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := s.cache.SyncStock(ctx, p.ID, p.Inventory); err != nil {
			return fmt.Errorf("sync stock for %s: %w", p.ID, err)
		}
	}
	s.log.Info("stock synced", "products", len(products))
	return nil
}

// Seed inserts the sample catalog. Refuses when any product already exists.
func (s *ProductService) Seed(ctx context.Context) ([]domain.Product, error) {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySeeded
	}

	seeded := make([]domain.Product, 0, len(sampleProducts))
	for _, p := range sampleProducts {
		created, err := s.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		seeded = append(seeded, created)
	}
	return seeded, nil
}
