package mail

import (
	"context"
	"fmt"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// Message kinds.
const (
	KindGiftCardRequest = "giftcard_request"
	KindHolidayRequest  = "holiday_request"
	KindMonthlyReport   = "monthly_report"
)

// Message is a rendered email ready for delivery.
type Message struct {
	Kind          string
	Sender        string
	Recipient     string
	Subject       string
	HTML          string
	AttachmentKey string
}

// Outbox hands messages to a persistent outbox for later relay.
type Outbox struct {
	store  model.OutboxStore
	logger *logger.Logger
}

func NewOutbox(store model.OutboxStore, logger *logger.Logger) *Outbox {
	return &Outbox{
		store:  store,
		logger: logger,
	}
}

// Send enqueues msg and returns its message id.
func (o *Outbox) Send(ctx context.Context, msg Message) (string, error) {
	email, err := o.store.Enqueue(ctx, model.OutboundEmail{
		Kind:          msg.Kind,
		Sender:        msg.Sender,
		Recipient:     msg.Recipient,
		Subject:       msg.Subject,
		HTMLBody:      msg.HTML,
		AttachmentKey: msg.AttachmentKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to enqueue message: %w", err)
	}

	o.logger.Info("Mail outbox: message queued", "message_id", email.ID, "kind", msg.Kind, "recipient", msg.Recipient)

	return email.ID.String(), nil
}
