package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusDeclined OrderStatus = "declined"
	OrderStatusFailed   OrderStatus = "failed"
)

// SelectedVariant captures one buyer choice, e.g. {color black}.
type SelectedVariant struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LineItem snapshots product name and price at order time; the snapshot is
// immutable even if the catalog changes afterwards.
type LineItem struct {
	ProductID        string            `json:"productId"`
	ProductName      string            `json:"productName"`
	Price            decimal.Decimal   `json:"price"`
	Quantity         int               `json:"quantity"`
	SelectedVariants []SelectedVariant `json:"selectedVariants"`
	Image            string            `json:"image"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
}

type CustomerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

// PaymentInfo holds the card number masked before persistence. The CVV is
// retained only so the simulated gateway decision can be replayed; it is
// never serialized out.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"-"`
}

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Items         []LineItem      `json:"items"`
	CustomerInfo  CustomerInfo    `json:"customerInfo"`
	PaymentInfo   PaymentInfo     `json:"paymentInfo"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	TransactionID string          `json:"transactionId,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	EmailSent     bool            `json:"emailSent"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// MaskCardNumber strips whitespace and replaces every digit except the last
// four with '*'.
func MaskCardNumber(number string) string {
	var digits strings.Builder
	for _, r := range number {
		if !unicode.IsSpace(r) {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	if len(clean) <= 4 {
		return clean
	}
	return strings.Repeat("*", len(clean)-4) + clean[len(clean)-4:]
}
