package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboundEmail is a rendered message waiting for delivery.
type OutboundEmail struct {
	ID            uuid.UUID
	Kind          string
	Sender        string
	Recipient     string
	Subject       string
	HTMLBody      string
	AttachmentKey string
	CreatedAt     time.Time
	SentAt        *time.Time
}

// OutboxStore persists outbound emails.
type OutboxStore interface {
	Enqueue(ctx context.Context, email OutboundEmail) (OutboundEmail, error)
	GetByID(ctx context.Context, id uuid.UUID) (OutboundEmail, error)
}
