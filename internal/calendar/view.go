package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/m2m-server/internal/model"
)

// PaymentSource lists the ledger.
type PaymentSource interface {
	Payments(ctx context.Context) ([]model.Payment, error)
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithClock sets the time source for the initial cursor and today marker.
func WithClock(now func() time.Time) ViewOption {
	return func(v *View) {
		v.now = now
	}
}

// WithLocation sets the time zone that decides the current day.
func WithLocation(loc *time.Location) ViewOption {
	return func(v *View) {
		v.loc = loc
	}
}

// View is a month cursor over the ledger.
type View struct {
	source PaymentSource
	now    func() time.Time
	loc    *time.Location

	mu    sync.Mutex
	year  int
	month time.Month
}

// NewView opens a view positioned on the current month.
func NewView(source PaymentSource, opts ...ViewOption) *View {
	v := &View{
		source: source,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.year, v.month, _ = v.today().Date()
	return v
}

// Cursor returns the month currently displayed.
func (v *View) Cursor() (int, time.Month) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.year, v.month
}

// Render aggregates the displayed month.
func (v *View) Render(ctx context.Context) (MonthView, error) {
	year, month := v.Cursor()
	return v.render(ctx, year, month)
}

// Show moves the cursor to an explicit month.
func (v *View) Show(ctx context.Context, year int, month time.Month) (MonthView, error) {
	if month < time.January || month > time.December {
		return MonthView{}, fmt.Errorf("%w: month %d", model.ErrInvalidDate, month)
	}
	return v.move(ctx, func(int, time.Month) (int, time.Month) { return year, month })
}

// Prev moves the cursor one month back.
func (v *View) Prev(ctx context.Context) (MonthView, error) {
	return v.move(ctx, func(y int, m time.Month) (int, time.Month) {
		t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return t.Year(), t.Month()
	})
}

// Next moves the cursor one month forward.
func (v *View) Next(ctx context.Context) (MonthView, error) {
	return v.move(ctx, func(y int, m time.Month) (int, time.Month) {
		t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return t.Year(), t.Month()
	})
}

// Today moves the cursor back to the current month.
func (v *View) Today(ctx context.Context) (MonthView, error) {
	return v.move(ctx, func(int, time.Month) (int, time.Month) {
		y, m, _ := v.today().Date()
		return y, m
	})
}

// DailyPayments returns the payments recorded for date, in ledger order.
func (v *View) DailyPayments(ctx context.Context, date string) ([]model.Payment, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDate, date)
	}

	payments, err := v.source.Payments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	out := make([]model.Payment, 0)
	for _, p := range payments {
		if p.Date == date {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v *View) move(ctx context.Context, step func(int, time.Month) (int, time.Month)) (MonthView, error) {
	v.mu.Lock()
	v.year, v.month = step(v.year, v.month)
	year, month := v.year, v.month
	v.mu.Unlock()

	return v.render(ctx, year, month)
}

func (v *View) render(ctx context.Context, year int, month time.Month) (MonthView, error) {
	payments, err := v.source.Payments(ctx)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to list payments: %w", err)
	}
	return Aggregate(year, month, payments, v.today()), nil
}

func (v *View) today() time.Time {
	return v.now().In(v.loc)
}
