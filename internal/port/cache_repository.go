package port

import "context"

type InventoryCache interface {
	// ReserveStock atomically decreases stock, returns false if insufficient
	ReserveStock(ctx context.Context, productID string, quantity int) (bool, error)

	// ReleaseStock restores stock (for non-approved outcomes and rollback on failure)
	ReleaseStock(ctx context.Context, productID string, quantity int) error

	// SyncStock overwrites the cached stock with the durable value
	SyncStock(ctx context.Context, productID string, quantity int) error
}
