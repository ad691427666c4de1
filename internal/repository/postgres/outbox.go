package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/m2m-server/internal/model"
)

var _ model.OutboxStore = (*OutboxRepository)(nil)

// OutboxRepository persists rendered emails until a relay delivers them.
type OutboxRepository struct {
	db *Connection
}

func NewOutboxRepository(db *Connection) *OutboxRepository {
	return &OutboxRepository{
		db: db,
	}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, email model.OutboundEmail) (model.OutboundEmail, error) {
	if email.ID == uuid.Nil {
		email.ID = uuid.New()
	}

	query := `INSERT INTO outbound_emails (id, kind, sender, recipient, subject, html_body, attachment_key)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		email.ID, email.Kind, email.Sender, email.Recipient, email.Subject, email.HTMLBody, email.AttachmentKey,
	).Scan(&email.CreatedAt)
	if err != nil {
		return model.OutboundEmail{}, fmt.Errorf("failed to enqueue email: %w", err)
	}

	return email, nil
}

func (r *OutboxRepository) GetByID(ctx context.Context, id uuid.UUID) (model.OutboundEmail, error) {
	var email model.OutboundEmail
	query := `SELECT id, kind, sender, recipient, subject, html_body, attachment_key, created_at, sent_at
			  FROM outbound_emails WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&email.ID, &email.Kind, &email.Sender, &email.Recipient, &email.Subject, &email.HTMLBody,
		&email.AttachmentKey, &email.CreatedAt, &email.SentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OutboundEmail{}, model.ErrNotFound
		}
		return model.OutboundEmail{}, fmt.Errorf("failed to get email by id: %w", err)
	}

	return email, nil
}
