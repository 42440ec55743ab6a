// Package payment simulates gateway behavior deterministically from the
// 3-digit code submitted at checkout. No real charge ever happens.
package payment

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rl1809/checkout/internal/core/domain"
)

type Result struct {
	Status        domain.OrderStatus
	TransactionID string
	ErrorMessage  string
}

// Simulate maps a code to an outcome. The table is closed: every
// syntactically valid 3-digit code resolves, unrecognized codes approve.
// Status is a pure function of the code; only the transaction id varies.
func Simulate(code string) Result {
	switch code {
	case "222":
		return Result{Status: domain.OrderStatusDeclined, ErrorMessage: "Card declined by issuer"}
	case "333":
		return Result{Status: domain.OrderStatusFailed, ErrorMessage: "Gateway timeout error"}
	case "111":
		fallthrough
	default:
		return Result{Status: domain.OrderStatusApproved, TransactionID: NewTransactionID()}
	}
}

// NewTransactionID returns an opaque identifier for an approved charge.
func NewTransactionID() string {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:8])
}
