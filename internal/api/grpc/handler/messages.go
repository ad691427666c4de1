package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/calculator"
	"github.com/dtroode/m2m-server/internal/calendar"
	"github.com/dtroode/m2m-server/internal/checklist"
	"github.com/dtroode/m2m-server/internal/model"
)

// Empty is the request or response of calls without a payload.
type Empty struct{}

type StateResponse struct {
	State string `json:"state"`
}

type SubmitCodeRequest struct {
	Code string `json:"code"`
}

type SubmitProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	// Image carries raw image bytes; ImageDataURL accepts a base64 data URL instead.
	Image        []byte `json:"image,omitempty"`
	ImageDataURL string `json:"imageDataUrl,omitempty"`
}

type SessionResponse struct {
	State   string   `json:"state"`
	Token   string   `json:"token,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	PhotoKey string `json:"photoKey,omitempty"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type ChangePhotoRequest struct {
	Image        []byte `json:"image,omitempty"`
	ImageDataURL string `json:"imageDataUrl,omitempty"`
}

type PhotoResponse struct {
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type CalculateRequest struct {
	Regular  string `json:"regular"`
	GiftCard string `json:"giftCard"`
}

type Calculation struct {
	Regular   decimal.Decimal `json:"regular"`
	GiftCard  decimal.Decimal `json:"giftCard"`
	Total     decimal.Decimal `json:"total"`
	DueAmount decimal.Decimal `json:"dueAmount"`
}

type DateOption struct {
	Label string `json:"label"`
	Date  string `json:"date"`
}

type StartPaymentResponse struct {
	Calculation Calculation  `json:"calculation"`
	Dates       []DateOption `json:"dates"`
}

type SelectDateRequest struct {
	Date string `json:"date"`
}

type StepResponse struct {
	Step      string   `json:"step"`
	Locations []string `json:"locations,omitempty"`
}

type SelectLocationRequest struct {
	Location string `json:"location"`
}

type Payment struct {
	ID                  string           `json:"id"`
	Date                string           `json:"date"`
	DueAmount           decimal.Decimal  `json:"dueAmount"`
	GiftCardAmount      decimal.Decimal  `json:"giftCardAmount"`
	GrossAmount         *decimal.Decimal `json:"grossAmount,omitempty"`
	Earnings            decimal.Decimal  `json:"earnings"`
	Note                string           `json:"note,omitempty"`
	GiftCardRequestSent bool             `json:"giftCardRequestSent"`
}

type Transfer struct {
	AccountHolder string          `json:"accountHolder"`
	IBAN          string          `json:"iban"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
}

type ReceiptResponse struct {
	Payment  Payment  `json:"payment"`
	Transfer Transfer `json:"transfer"`
}

type PaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type DateRequest struct {
	Date string `json:"date"`
}

type PaymentIDRequest struct {
	ID string `json:"id"`
}

type SetNoteRequest struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type GiftCardPaymentRequest struct {
	ID             string `json:"id"`
	GiftCardNumber string `json:"giftCardNumber,omitempty"`
	Comment        string `json:"comment"`
}

// Navigation values for MonthRequest.
const (
	NavigatePrev  = "prev"
	NavigateNext  = "next"
	NavigateToday = "today"
)

// MonthRequest selects a calendar month. Month is 1-based (1 is January),
// unlike the 0-based months of the JavaScript Date API. Zero year and month
// with no Navigate re-render the current cursor.
type MonthRequest struct {
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	Navigate string `json:"navigate,omitempty"`
}

type Day struct {
	Number     int    `json:"number"`
	Date       string `json:"date,omitempty"`
	HasPayment bool   `json:"hasPayment"`
	IsToday    bool   `json:"isToday"`
}

type MonthResponse struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Title         string          `json:"title"`
	Weeks         [][]Day         `json:"weeks"`
	TotalDue      decimal.Decimal `json:"totalDue"`
	TotalGiftCard decimal.Decimal `json:"totalGiftCard"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
}

type HolidayRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Notes     string `json:"notes,omitempty"`
}

type MessageResponse struct {
	MessageID string `json:"messageId"`
}

type ExpressionRequest struct {
	Expression string `json:"expression"`
}

type ExpressionResponse struct {
	Result string `json:"result"`
}

type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type EvaluateRequest struct {
	Position       *Position `json:"position,omitempty"`
	LocationDenied bool      `json:"locationDenied,omitempty"`
}

type CheckRequest struct {
	ItemID  string `json:"itemId"`
	Checked bool   `json:"checked"`
}

type ShowManualRequest struct {
	Type string `json:"type"`
}

type ChecklistItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type Snapshot struct {
	State       string          `json:"state"`
	Type        string          `json:"type,omitempty"`
	Title       string          `json:"title,omitempty"`
	Items       []ChecklistItem `json:"items,omitempty"`
	Manual      bool            `json:"manual,omitempty"`
	Complete    bool            `json:"complete"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty"`
}

func toProfile(p model.UserProfile) *Profile {
	out := &Profile{ID: p.ID.String(), Name: p.Name, Email: p.Email}
	if p.ProfileImage != nil {
		out.PhotoKey = *p.ProfileImage
	}
	return out
}

func toCalculation(c calculator.Calculation) Calculation {
	return Calculation{
		Regular:   c.Regular,
		GiftCard:  c.GiftCard,
		Total:     c.Gross,
		DueAmount: c.DueAmount,
	}
}

func toPayment(p model.Payment) Payment {
	out := Payment{
		ID:                  p.ID.String(),
		Date:                p.Date,
		DueAmount:           p.DueAmount,
		GiftCardAmount:      p.GiftCardAmount,
		Earnings:            calculator.Earnings(p).Round(2),
		Note:                p.Note,
		GiftCardRequestSent: p.GiftCardRequestSent,
	}
	if p.GrossAmount.Valid {
		gross := p.GrossAmount.Decimal
		out.GrossAmount = &gross
	}
	return out
}

func toPayments(payments []model.Payment) []Payment {
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPayment(p))
	}
	return out
}

func toMonth(v calendar.MonthView) *MonthResponse {
	weeks := make([][]Day, 0, len(v.Weeks))
	for _, week := range v.Weeks {
		row := make([]Day, 0, len(week))
		for _, d := range week {
			row = append(row, Day{Number: d.Number, Date: d.Date, HasPayment: d.HasPayment, IsToday: d.IsToday})
		}
		weeks = append(weeks, row)
	}
	return &MonthResponse{
		Year:          v.Year,
		Month:         int(v.Month),
		Title:         v.Title(),
		Weeks:         weeks,
		TotalDue:      v.Totals.Due,
		TotalGiftCard: v.Totals.GiftCard,
		TotalEarnings: v.Totals.Earnings.Round(2),
	}
}

func toSnapshot(s checklist.Snapshot) *Snapshot {
	out := &Snapshot{
		State:    s.State.String(),
		Type:     string(s.Type),
		Title:    s.Title,
		Manual:   s.Manual,
		Complete: s.Complete(),
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, ChecklistItem{ID: item.ID, Text: item.Text, Checked: item.Checked})
	}
	if !s.ConfirmedAt.IsZero() {
		at := s.ConfirmedAt
		out.ConfirmedAt = &at
	}
	return out
}
