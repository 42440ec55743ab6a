package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VariantOption is a single selectable option within a variant group,
// e.g. "Black" within "Color".
type VariantOption struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	InStock bool   `json:"inStock"`
	Image   string `json:"image,omitempty"`
}

// VariantGroup is an ordered set of options a buyer picks from.
type VariantGroup struct {
	Name    string          `json:"name"`
	Value   string          `json:"value"`
	Options []VariantOption `json:"options"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Variants    []VariantGroup  `json:"variants"`
	Inventory   int             `json:"inventory"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
