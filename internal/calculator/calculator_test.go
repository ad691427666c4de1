package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/m2m-server/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		regular  string
		giftCard string
		wantDue  string
		wantGift string
		wantSum  string
	}{
		{name: "regular and gift card", regular: "100", giftCard: "50", wantDue: "60", wantGift: "50", wantSum: "150"},
		{name: "zero", regular: "0", giftCard: "0", wantDue: "0", wantGift: "0", wantSum: "0"},
		{name: "rounded to cents", regular: "33.33", giftCard: "0", wantDue: "13.33", wantGift: "0", wantSum: "33.33"},
		{name: "negative counts as zero", regular: "-20", giftCard: "10", wantDue: "4", wantGift: "10", wantSum: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Calculate(dec(tt.regular), dec(tt.giftCard))
			assert.True(t, dec(tt.wantDue).Equal(got.DueAmount), "due %s", got.DueAmount)
			assert.True(t, dec(tt.wantGift).Equal(got.GiftCard), "gift %s", got.GiftCard)
			assert.True(t, dec(tt.wantSum).Equal(got.Gross), "gross %s", got.Gross)
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "100", want: "100"},
		{input: "12.50", want: "12.5"},
		{input: "12,50", want: "12.5"},
		{input: " 7 ", want: "7"},
		{input: "€ 20", want: "20"},
		{input: "15abc", want: "15"},
		{input: "abc", want: "0"},
		{input: "", want: "0"},
		{input: "-5", want: "0"},
		{input: ".5", want: "0.5"},
		{input: "3.", want: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := ParseAmount(tt.input)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestEarnings(t *testing.T) {
	t.Parallel()

	t.Run("derived from due amount", func(t *testing.T) {
		t.Parallel()
		p := model.Payment{DueAmount: dec("10")}
		assert.True(t, dec("15").Equal(Earnings(p)))
	})

	t.Run("uses stored gross when present", func(t *testing.T) {
		t.Parallel()
		p := model.Payment{DueAmount: dec("13.33"), GrossAmount: decimal.NewNullDecimal(dec("33.33"))}
		assert.True(t, dec("19.998").Equal(Earnings(p)))
	})
}
