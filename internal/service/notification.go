package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// sendGridNotifier mails booking events to the operations inbox.
type sendGridNotifier struct {
	client    mailSender
	fromEmail string
	fromName  string
	opsEmail  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName, opsEmail string) Notifier {
	return &sendGridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		opsEmail:  opsEmail,
	}
}

func (n *sendGridNotifier) BookingCreated(ctx context.Context, b *domain.Booking, v *domain.Vehicle) error {
	subject := fmt.Sprintf("New booking #%d for %s", b.ID, v.PlateNumber)
	body := fmt.Sprintf("Booking #%d for vehicle %s (%s) from %s to %s.\nTotal: %s (owner %s, company %s).",
		b.ID, v.PlateNumber, vehicleLabel(v),
		b.StartAt.Format("2006-01-02 15:04"), b.EndAt.Format("2006-01-02 15:04"),
		b.TotalPrice.StringFixed(2), b.OwnerEarned.StringFixed(2), b.CompanyEarned.StringFixed(2))
	return n.send("BookingCreated", subject, body)
}

func (n *sendGridNotifier) BookingStatusChanged(ctx context.Context, b *domain.Booking, v *domain.Vehicle, previous domain.BookingStatus) error {
	subject := fmt.Sprintf("Booking #%d is now %s", b.ID, b.Status)
	body := fmt.Sprintf("Booking #%d for vehicle %s changed from %s to %s.\nPayment status: %s, paid %s of %s.",
		b.ID, v.PlateNumber, previous, b.Status,
		b.PaymentStatus, b.PaidAmount.StringFixed(2), b.TotalPrice.StringFixed(2))
	return n.send("BookingStatusChanged", subject, body)
}

func (n *sendGridNotifier) message(subject, body string) *mail.SGMailV3 {
	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail("Operations", n.opsEmail)
	return mail.NewSingleEmail(from, subject, to, body, "")
}

func (n *sendGridNotifier) send(operation, subject, body string) error {
	if n.opsEmail == "" {
		logger.Debug("No operations inbox configured, skipping notification", "operation", operation)
		return nil
	}
	logger.ExternalServiceCall("sendgrid", operation, "subject", subject)
	resp, err := n.client.Send(n.message(subject, body))
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", operation, err)
	return err
}

func vehicleLabel(v *domain.Vehicle) string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("%s %s", v.Make, v.Model)
}

type noopNotifier struct{}

// NewNoopNotifier returns a Notifier that only logs.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) BookingCreated(ctx context.Context, b *domain.Booking, v *domain.Vehicle) error {
	logger.Debug("Booking created notification skipped", "booking_id", b.ID)
	return nil
}

func (noopNotifier) BookingStatusChanged(ctx context.Context, b *domain.Booking, v *domain.Vehicle, previous domain.BookingStatus) error {
	logger.Debug("Booking status notification skipped", "booking_id", b.ID, "from", previous, "to", b.Status)
	return nil
}
