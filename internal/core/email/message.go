// Package email renders order notification messages. Rendering is pure; the
// transport lives behind port.MailTransport.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/rl1809/checkout/internal/core/domain"
)

type Message struct {
	Subject string
	Body    string
}

type itemView struct {
	Name     string
	Variants string
	Quantity int
	Price    string
	Subtotal string
}

type orderView struct {
	CustomerName  string
	OrderNumber   string
	TransactionID string
	OrderDate     string
	Items         []itemView
	Total         string
	Address       string
	CityStateZip  string
}

// Build selects the template keyed by order status (approved, declined,
// anything else is treated as failed) and renders it.
func Build(o domain.Order) (Message, error) {
	view := orderView{
		CustomerName:  o.CustomerInfo.FullName,
		OrderNumber:   o.OrderNumber,
		TransactionID: o.TransactionID,
		OrderDate:     o.CreatedAt.Format("January 2, 2006"),
		Total:         o.Total.StringFixed(2),
		Address:       o.CustomerInfo.Address,
		CityStateZip:  fmt.Sprintf("%s, %s %s", o.CustomerInfo.City, o.CustomerInfo.State, o.CustomerInfo.ZipCode),
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, itemView{
			Name:     item.ProductName,
			Variants: formatVariants(item.SelectedVariants),
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Subtotal: item.Subtotal.StringFixed(2),
		})
	}

	var subject string
	var tmpl *template.Template
	switch o.Status {
	case domain.OrderStatusApproved:
		subject = fmt.Sprintf("Order Confirmation - %s", o.OrderNumber)
		tmpl = approvedTmpl
	case domain.OrderStatusDeclined:
		subject = fmt.Sprintf("Payment Declined - %s", o.OrderNumber)
		tmpl = declinedTmpl
	default:
		subject = fmt.Sprintf("Payment Processing Error - %s", o.OrderNumber)
		tmpl = failedTmpl
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, view); err != nil {
		return Message{}, fmt.Errorf("render %s template: %w", o.Status, err)
	}
	return Message{Subject: subject, Body: body.String()}, nil
}

func formatVariants(vs []domain.SelectedVariant) string {
	if len(vs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Name, v.Value))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
