// Package pricing computes order totals. The same function backs the
// submission pipeline and any summary view, so it must be deterministic for
// identical line items.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/checkout/internal/core/domain"
)

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingRate      = decimal.RequireFromString("9.99")
	taxRate               = decimal.RequireFromString("0.08")
)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Compute accumulates unrounded, rounds each component to cents only at
// output, and sums the rounded components so that
// Total = Subtotal + Shipping + Tax holds exactly.
func Compute(items []domain.LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := flatShippingRate
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	sub := subtotal.Round(2)
	ship := shipping.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return Totals{
		Subtotal: sub,
		Shipping: ship,
		Tax:      tax,
		Total:    sub.Add(ship).Add(tax),
	}
}
