package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/model"
)

var _ model.OutboxStore = (*OutboxRepository)(nil)

// OutboxRepository keeps queued emails in process memory.
type OutboxRepository struct {
	mu     sync.RWMutex
	emails map[uuid.UUID]model.OutboundEmail
	now    func() time.Time
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{
		emails: make(map[uuid.UUID]model.OutboundEmail),
		now:    time.Now,
	}
}

func (r *OutboxRepository) Enqueue(_ context.Context, email model.OutboundEmail) (model.OutboundEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if email.ID == uuid.Nil {
		email.ID = uuid.New()
	}
	email.CreatedAt = r.now()
	email.SentAt = nil
	r.emails[email.ID] = email

	return email, nil
}

func (r *OutboxRepository) GetByID(_ context.Context, id uuid.UUID) (model.OutboundEmail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email, ok := r.emails[id]
	if !ok {
		return model.OutboundEmail{}, model.ErrNotFound
	}
	return email, nil
}
