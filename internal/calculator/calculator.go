// Package calculator computes the center's share of a shift's takings and
// drives the flow that turns a calculation into a recorded payment.
package calculator

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/model"
)

var (
	// CenterShare is the fraction of gross takings owed to the center.
	CenterShare = decimal.RequireFromString("0.4")
	// TherapistShare is the fraction of gross takings the therapist keeps.
	TherapistShare = decimal.RequireFromString("0.6")
)

var amountPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// Calculation is the split of one shift's takings.
type Calculation struct {
	Regular   decimal.Decimal
	GiftCard  decimal.Decimal
	Gross     decimal.Decimal
	DueAmount decimal.Decimal
}

// Calculate splits regular and gift card takings. Negative inputs count as zero.
func Calculate(regular, giftCard decimal.Decimal) Calculation {
	regular = nonNegative(regular)
	giftCard = nonNegative(giftCard)
	gross := regular.Add(giftCard)

	return Calculation{
		Regular:   regular,
		GiftCard:  giftCard,
		Gross:     gross,
		DueAmount: gross.Mul(CenterShare).Round(2),
	}
}

// ParseAmount reads a user-entered amount. It accepts a comma as decimal
// separator and reads the leading numeric part; anything else yields zero.
func ParseAmount(input string) decimal.Decimal {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "€")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")

	match := amountPrefix.FindString(s)
	if match == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(strings.TrimSuffix(match, "."))
	if err != nil {
		return decimal.Zero
	}

	return nonNegative(value)
}

// Gross returns the takings a payment was calculated from.
func Gross(p model.Payment) decimal.Decimal {
	if p.GrossAmount.Valid {
		return p.GrossAmount.Decimal
	}
	return p.DueAmount.Div(CenterShare)
}

// Earnings returns the therapist's share for a payment.
func Earnings(p model.Payment) decimal.Decimal {
	return Gross(p).Mul(TherapistShare)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
