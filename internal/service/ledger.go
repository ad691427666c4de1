package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/calculator"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/mail"
	"github.com/dtroode/m2m-server/internal/model"
)

// GiftCardMailer sends gift card payout requests to the center.
type GiftCardMailer interface {
	SendGiftCardRequest(ctx context.Context, req mail.GiftCardRequest) (string, error)
}

var errUnchanged = errors.New("ledger unchanged")

var _ calculator.Ledger = (*Ledger)(nil)

// Ledger is the ordered list of recorded shift payments.
type Ledger struct {
	payments model.PaymentStore
	profiles model.ProfileStore
	mailer   GiftCardMailer
	logger   *logger.Logger
}

func NewLedger(payments model.PaymentStore, profiles model.ProfileStore, mailer GiftCardMailer, logger *logger.Logger) *Ledger {
	return &Ledger{
		payments: payments,
		profiles: profiles,
		mailer:   mailer,
		logger:   logger,
	}
}

// Append stores p at the end of the ledger, assigning an ID when missing.
func (s *Ledger) Append(ctx context.Context, p model.Payment) (model.Payment, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	err := s.payments.ModifyPayments(ctx, func(current []model.Payment) ([]model.Payment, error) {
		return append(current, p), nil
	})
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to append payment: %w", err)
	}

	s.logger.Info("Ledger service: payment recorded", "payment_id", p.ID, "date", p.Date, "due", p.DueAmount.StringFixed(2))
	return p, nil
}

func (s *Ledger) List(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.payments.Payments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *Ledger) Get(ctx context.Context, id uuid.UUID) (model.Payment, error) {
	payments, err := s.List(ctx)
	if err != nil {
		return model.Payment{}, err
	}

	i := indexOf(payments, id)
	if i < 0 {
		return model.Payment{}, model.ErrNotFound
	}
	return payments[i], nil
}

// ListByDate returns the payments recorded for a calendar day, in ledger order.
func (s *Ledger) ListByDate(ctx context.Context, date string) ([]model.Payment, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDate, date)
	}

	payments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	daily := make([]model.Payment, 0)
	for _, p := range payments {
		if p.Date == date {
			daily = append(daily, p)
		}
	}
	return daily, nil
}

// UpdateAt merges patch into the payment at index. It reports false for an
// out-of-range index and leaves the ledger untouched.
func (s *Ledger) UpdateAt(ctx context.Context, index int, patch model.PaymentPatch) (bool, error) {
	return s.modify(ctx, func(current []model.Payment) ([]model.Payment, error) {
		if index < 0 || index >= len(current) {
			return nil, errUnchanged
		}
		current[index] = patch.Apply(current[index])
		return current, nil
	})
}

// RemoveAt deletes the payment at index, shifting later payments down.
func (s *Ledger) RemoveAt(ctx context.Context, index int) (bool, error) {
	return s.modify(ctx, func(current []model.Payment) ([]model.Payment, error) {
		if index < 0 || index >= len(current) {
			return nil, errUnchanged
		}
		return slices.Delete(current, index, index+1), nil
	})
}

func (s *Ledger) UpdateByID(ctx context.Context, id uuid.UUID, patch model.PaymentPatch) (bool, error) {
	return s.modify(ctx, func(current []model.Payment) ([]model.Payment, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, errUnchanged
		}
		current[i] = patch.Apply(current[i])
		return current, nil
	})
}

func (s *Ledger) RemoveByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.modify(ctx, func(current []model.Payment) ([]model.Payment, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, errUnchanged
		}
		return slices.Delete(current, i, i+1), nil
	})
}

// SetNote replaces the payment note. A blank note removes it.
func (s *Ledger) SetNote(ctx context.Context, id uuid.UUID, note string) (model.Payment, error) {
	note = strings.TrimSpace(note)
	ok, err := s.UpdateByID(ctx, id, model.PaymentPatch{Note: &note})
	if err != nil {
		return model.Payment{}, err
	}
	if !ok {
		return model.Payment{}, model.ErrNotFound
	}
	return s.Get(ctx, id)
}

// RequestGiftCardPayment asks the center to pay out the gift card amount of a
// payment. The sent flag is set only once the request was accepted, so a
// failed send can be retried.
func (s *Ledger) RequestGiftCardPayment(ctx context.Context, id uuid.UUID, giftCardNumber, comment string) (model.Payment, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return model.Payment{}, model.ErrCommentRequired
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return model.Payment{}, err
	}
	if !p.GiftCardAmount.IsPositive() {
		return model.Payment{}, model.ErrNoGiftCard
	}
	if p.GiftCardRequestSent {
		return model.Payment{}, model.ErrRequestAlreadySent
	}

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to read profile: %w", err)
	}

	messageID, err := s.mailer.SendGiftCardRequest(ctx, mail.GiftCardRequest{
		UserName:       profile.Name,
		Date:           p.Date,
		Amount:         p.GiftCardAmount,
		GiftCardNumber: strings.TrimSpace(giftCardNumber),
		Comment:        comment,
	})
	if err != nil {
		s.logger.Warn("Ledger service: gift card request not sent", "payment_id", id, "error", err)
		return model.Payment{}, fmt.Errorf("failed to send gift card request: %w", err)
	}

	sent := true
	ok, err := s.UpdateByID(ctx, id, model.PaymentPatch{GiftCardRequestSent: &sent})
	if err != nil {
		return model.Payment{}, err
	}
	if !ok {
		return model.Payment{}, model.ErrNotFound
	}

	s.logger.Info("Ledger service: gift card request sent", "payment_id", id, "message_id", messageID)

	p.GiftCardRequestSent = true
	return p, nil
}

func (s *Ledger) modify(ctx context.Context, fn func([]model.Payment) ([]model.Payment, error)) (bool, error) {
	err := s.payments.ModifyPayments(ctx, fn)
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to modify payments: %w", err)
	}
	return true, nil
}

func indexOf(payments []model.Payment, id uuid.UUID) int {
	return slices.IndexFunc(payments, func(p model.Payment) bool { return p.ID == id })
}
