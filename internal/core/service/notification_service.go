package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rl1809/checkout/internal/core/domain"
	"github.com/rl1809/checkout/internal/core/email"
	"github.com/rl1809/checkout/internal/port"
)

var (
	// ErrDeliveryFailed marks a transport failure. The order is untouched and
	// the send may be retried without re-validating or re-pricing anything.
	ErrDeliveryFailed = errors.New("notification delivery failed")

	ErrTransportNotConfigured = errors.New("mail transport not configured")
)

type SendResult struct {
	OrderNumber string `json:"orderNumber"`
	EmailType   string `json:"emailType"`
	Recipient   string `json:"recipient,omitempty"`
	Simulated   bool   `json:"simulatedOnly,omitempty"`
}

type NotificationService struct {
	log    *slog.Logger
	orders port.OrderRepository
	mailer port.MailTransport
}

func NewNotificationService(log *slog.Logger, orders port.OrderRepository, mailer port.MailTransport) *NotificationService {
	return &NotificationService{log: log, orders: orders, mailer: mailer}
}

// Send looks up the order, renders the status-keyed message and transmits it.
// Without SMTP credentials it degrades to a simulated success instead of
// failing; that is operational policy, not an error path.
func (s *NotificationService) Send(ctx context.Context, orderNumber string) (SendResult, error) {
	o, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return SendResult{}, err
	}

	emailType := string(o.Status)
	if o.Status != domain.OrderStatusApproved && o.Status != domain.OrderStatusDeclined {
		emailType = string(domain.OrderStatusFailed)
	}

	if !s.mailer.Configured() {
		s.log.Info("smtp credentials not found, email simulation only", "order_number", orderNumber)
		return SendResult{OrderNumber: orderNumber, EmailType: emailType, Simulated: true}, nil
	}

	msg, err := email.Build(o)
	if err != nil {
		return SendResult{}, err
	}

	if err := s.mailer.Send(ctx, o.CustomerInfo.Email, msg.Subject, msg.Body); err != nil {
		return SendResult{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	if _, err := s.orders.MarkNotified(ctx, o.OrderNumber); err != nil {
		// Delivery succeeded; a flag failure must not cause a resend.
		s.log.Error("mark notified failed", "order_number", o.OrderNumber, "err", err)
	}

	s.log.Info("order email sent", "order_number", o.OrderNumber, "email_type", emailType, "recipient", o.CustomerInfo.Email)
	return SendResult{OrderNumber: o.OrderNumber, EmailType: emailType, Recipient: o.CustomerInfo.Email}, nil
}

// VerifyTransport checks SMTP reachability for the test-connection endpoint.
func (s *NotificationService) VerifyTransport(ctx context.Context) error {
	if !s.mailer.Configured() {
		return ErrTransportNotConfigured
	}
	return s.mailer.Verify(ctx)
}
