package model

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for payment dates.
const DateLayout = "2006-01-02"

// Payment is one recorded shift payment.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	Date           string          `json:"date"`
	DueAmount      decimal.Decimal `json:"dueAmount"`
	GiftCardAmount decimal.Decimal `json:"giftCardAmount"`
	// GrossAmount is the regular plus gift card total before the split.
	// Records written before it was tracked have it unset.
	GrossAmount         decimal.NullDecimal `json:"grossAmount"`
	Note                string              `json:"note"`
	GiftCardRequestSent bool                `json:"giftCardRequestSent"`
}

// PaymentPatch describes a partial update; nil fields are left untouched.
type PaymentPatch struct {
	Note                *string
	GiftCardRequestSent *bool
}

// Apply returns p with the patch fields merged in.
func (patch PaymentPatch) Apply(p Payment) Payment {
	if patch.Note != nil {
		p.Note = *patch.Note
	}
	if patch.GiftCardRequestSent != nil {
		p.GiftCardRequestSent = *patch.GiftCardRequestSent
	}
	return p
}

// PaymentStore persists the ordered payment ledger.
type PaymentStore interface {
	Payments(ctx context.Context) ([]Payment, error)
	// ModifyPayments runs fn over the current ledger and stores its result atomically.
	ModifyPayments(ctx context.Context, fn func([]Payment) ([]Payment, error)) error
}

// Location is a shop branch where a shift takes place.
type Location string

const (
	LocationPrenzlauerBerg Location = "Prenzlauer Berg"
	LocationSchoeneberg    Location = "Schoeneberg"
)

// Locations lists the selectable branches in display order.
var Locations = []Location{LocationPrenzlauerBerg, LocationSchoeneberg}

// Valid reports whether l is a known branch.
func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}
