// Package calendar aggregates the payment ledger into month views.
package calendar

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/calculator"
	"github.com/dtroode/m2m-server/internal/model"
)

// Day is one calendar cell. Padding cells before the first of the month have Number 0.
type Day struct {
	Number     int
	Date       string
	HasPayment bool
	IsToday    bool
}

// Totals sums a month's ledger.
type Totals struct {
	Due      decimal.Decimal
	GiftCard decimal.Decimal
	Earnings decimal.Decimal
}

// MonthView is a Monday-first grid of a month with its totals.
type MonthView struct {
	Year   int
	Month  time.Month
	Weeks  [][]Day
	Totals Totals
}

// Title returns the month heading, e.g. "March 2024".
func (v MonthView) Title() string {
	return time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// InMonth reports whether p was recorded for a day of the given month.
// Payments with malformed dates belong to no month.
func InMonth(p model.Payment, year int, month time.Month) bool {
	d, err := time.Parse(model.DateLayout, p.Date)
	if err != nil {
		return false
	}
	return d.Year() == year && d.Month() == month
}

// PaymentsInMonth returns the payments of a month in ledger order.
func PaymentsInMonth(payments []model.Payment, year int, month time.Month) []model.Payment {
	out := make([]model.Payment, 0)
	for _, p := range payments {
		if InMonth(p, year, month) {
			out = append(out, p)
		}
	}
	return out
}

// MonthlyTotals sums due, gift card and earnings over a month's payments.
func MonthlyTotals(payments []model.Payment, year int, month time.Month) Totals {
	totals := Totals{Due: decimal.Zero, GiftCard: decimal.Zero, Earnings: decimal.Zero}
	for _, p := range payments {
		if !InMonth(p, year, month) {
			continue
		}
		totals.Due = totals.Due.Add(p.DueAmount)
		totals.GiftCard = totals.GiftCard.Add(p.GiftCardAmount)
		totals.Earnings = totals.Earnings.Add(calculator.Earnings(p))
	}
	return totals
}

// Aggregate builds the month grid and totals. today marks the current day cell.
func Aggregate(year int, month time.Month, payments []model.Payment, today time.Time) MonthView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) + 6) % 7
	todayDate := today.Format(model.DateLayout)

	withPayment := make(map[string]bool)
	for _, p := range payments {
		if InMonth(p, year, month) {
			withPayment[p.Date] = true
		}
	}

	cells := make([]Day, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		cells = append(cells, Day{})
	}
	for n := 1; n <= daysInMonth; n++ {
		date := first.AddDate(0, 0, n-1).Format(model.DateLayout)
		cells = append(cells, Day{
			Number:     n,
			Date:       date,
			HasPayment: withPayment[date],
			IsToday:    date == todayDate,
		})
	}

	weeks := make([][]Day, 0, 6)
	for start := 0; start < len(cells); start += 7 {
		end := min(start+7, len(cells))
		weeks = append(weeks, cells[start:end])
	}

	return MonthView{
		Year:   year,
		Month:  month,
		Weeks:  weeks,
		Totals: MonthlyTotals(payments, year, month),
	}
}
