package domain

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrOrderNotFound         = errors.New("order not found")

	// ErrOrderNumberConflict is returned by storage when a freshly generated
	// order number collides with an existing one; the caller retries with a
	// new number.
	ErrOrderNumberConflict = errors.New("order number conflict")
)
