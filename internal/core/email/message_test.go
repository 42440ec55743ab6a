package email

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/checkout/internal/core/domain"
)

func sampleOrder(status domain.OrderStatus) domain.Order {
	return domain.Order{
		OrderNumber:   "ORD-ABCDEF1234567890ABCD",
		Status:        status,
		TransactionID: "TXN-0A1B2C3D",
		Total:         decimal.RequireFromString("162.00"),
		CreatedAt:     time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC),
		CustomerInfo: domain.CustomerInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Address:  "1 Main St",
			City:     "Springfield",
			State:    "IL",
			ZipCode:  "62704",
		},
		Items: []domain.LineItem{
			{
				ProductName: "Converse Chuck Taylor All Star II Hi",
				Price:       decimal.RequireFromString("75.00"),
				Quantity:    2,
				Subtotal:    decimal.RequireFromString("150.00"),
				SelectedVariants: []domain.SelectedVariant{
					{Name: "Color", Value: "Black"},
					{Name: "Size", Value: "10"},
				},
			},
		},
	}
}

func TestBuild_Approved(t *testing.T) {
	msg, err := Build(sampleOrder(domain.OrderStatusApproved))
	require.NoError(t, err)

	assert.Equal(t, "Order Confirmation - ORD-ABCDEF1234567890ABCD", msg.Subject)
	assert.Contains(t, msg.Body, "Jane Doe")
	assert.Contains(t, msg.Body, "ORD-ABCDEF1234567890ABCD")
	assert.Contains(t, msg.Body, "TXN-0A1B2C3D")
	assert.Contains(t, msg.Body, "March 7, 2025")
	assert.Contains(t, msg.Body, "Converse Chuck Taylor All Star II Hi")
	assert.Contains(t, msg.Body, "Color: Black, Size: 10")
	assert.Contains(t, msg.Body, "162.00")
	assert.Contains(t, msg.Body, "Springfield, IL 62704")
}

func TestBuild_Declined(t *testing.T) {
	msg, err := Build(sampleOrder(domain.OrderStatusDeclined))
	require.NoError(t, err)

	assert.Equal(t, "Payment Declined - ORD-ABCDEF1234567890ABCD", msg.Subject)
	assert.NotContains(t, msg.Body, "TXN-0A1B2C3D")
}

func TestBuild_FailedAndUnknownStatus(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderStatusFailed, domain.OrderStatus("bogus")} {
		msg, err := Build(sampleOrder(status))
		require.NoError(t, err)
		assert.Equal(t, "Payment Processing Error - ORD-ABCDEF1234567890ABCD", msg.Subject)
	}
}

func TestFormatVariants(t *testing.T) {
	assert.Equal(t, "", formatVariants(nil))
	assert.Equal(t, " (Color: Black)", formatVariants([]domain.SelectedVariant{{Name: "Color", Value: "Black"}}))
	assert.Equal(t, " (Color: Black, Size: 10)", formatVariants([]domain.SelectedVariant{
		{Name: "Color", Value: "Black"},
		{Name: "Size", Value: "10"},
	}))
}
