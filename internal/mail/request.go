// Package mail defines the email request payloads shared by the mail proxy
// and its clients, and the outbox-backed mailer that accepts them.
package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/model"
)

// Proxy endpoint paths.
const (
	PathGiftCardRequest = "/api/send-giftcard-request"
	PathHolidayRequest  = "/api/send-holiday-request"
	PathMonthlyReport   = "/api/send-monthly-report"
)

// HolidayLeadDays is the minimum notice for a holiday request.
const HolidayLeadDays = 31

// MonthLayout is the format of a report month.
const MonthLayout = "2006-01"

// GiftCardRequest asks the center to pay out a gift card taken during a shift.
type GiftCardRequest struct {
	UserName       string          `json:"userName"`
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	GiftCardNumber string          `json:"giftCardNumber,omitempty"`
	Comment        string          `json:"comment"`
}

// Validate checks that every required field is present.
func (r GiftCardRequest) Validate() error {
	if blank(r.UserName) || blank(r.Date) || r.Amount.IsZero() || blank(r.Comment) {
		return model.ErrMissingFields
	}
	return nil
}

// HolidayRequest asks the center for time off.
type HolidayRequest struct {
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Notes     string `json:"notes,omitempty"`
}

// Validate checks required fields, date order and the notice period relative to today.
func (r HolidayRequest) Validate(today time.Time) error {
	if blank(r.UserName) || blank(r.StartDate) || blank(r.EndDate) {
		return model.ErrMissingFields
	}

	start, end, err := r.period(today.Location())
	if err != nil {
		return err
	}

	if end.Before(start) {
		return model.ErrEndBeforeStart
	}

	earliest := midnight(today).AddDate(0, 0, HolidayLeadDays)
	if start.Before(earliest) {
		return model.ErrHolidayLeadTime
	}

	return nil
}

// Days returns the number of calendar days the request covers, both ends included.
func (r HolidayRequest) Days() (int, error) {
	start, end, err := r.period(time.UTC)
	if err != nil {
		return 0, err
	}

	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) + 1, nil
}

// Period returns the parsed start and end dates.
func (r HolidayRequest) Period() (time.Time, time.Time, error) {
	return r.period(time.UTC)
}

func (r HolidayRequest) period(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(model.DateLayout, r.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date %q", model.ErrInvalidDate, r.StartDate)
	}
	end, err := time.ParseInLocation(model.DateLayout, r.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %q", model.ErrInvalidDate, r.EndDate)
	}
	return start, end, nil
}

// ReportPayment is one ledger line in a monthly report.
type ReportPayment struct {
	Date           string          `json:"date"`
	DueAmount      decimal.Decimal `json:"dueAmount"`
	GiftCardAmount decimal.Decimal `json:"giftCardAmount"`
	Note           string          `json:"note,omitempty"`
}

// MonthlyReportRequest emails a month's ledger summary to the therapist.
type MonthlyReportRequest struct {
	UserName      string          `json:"userName"`
	UserEmail     string          `json:"userEmail"`
	Month         string          `json:"month"`
	Payments      []ReportPayment `json:"payments"`
	TotalDue      decimal.Decimal `json:"totalDue"`
	TotalGiftCard decimal.Decimal `json:"totalGiftCard"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
}

// Validate checks required fields and the month format.
func (r MonthlyReportRequest) Validate() error {
	if blank(r.UserName) || blank(r.UserEmail) || blank(r.Month) || r.Payments == nil {
		return model.ErrMissingFields
	}
	if _, err := r.ParseMonth(); err != nil {
		return err
	}
	return nil
}

// ParseMonth returns the first day of the report month.
func (r MonthlyReportRequest) ParseMonth() (time.Time, error) {
	month, err := time.Parse(MonthLayout, r.Month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", model.ErrInvalidDate, r.Month)
	}
	return month, nil
}

// Response is the proxy's JSON reply.
type Response struct {
	Success   bool   `json:"success,omitempty"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
