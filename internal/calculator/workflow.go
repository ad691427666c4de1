package calculator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// Step is the position of the payment workflow.
type Step int

const (
	StepIdle Step = iota
	StepChooseDate
	StepChooseLocation
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepChooseDate:
		return "choose_date"
	case StepChooseLocation:
		return "choose_location"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// DateOption is a shift date the user may attach a payment to.
type DateOption struct {
	Label string
	Date  string
}

// Ledger appends recorded payments.
type Ledger interface {
	Append(ctx context.Context, payment model.Payment) (model.Payment, error)
}

// Receipt is the outcome of a completed workflow.
type Receipt struct {
	Payment  model.Payment
	Transfer TransferInstructions
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithClock sets the time source used to offer shift dates.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) {
		w.now = now
	}
}

// WithLocation sets the time zone shift dates are computed in.
func WithLocation(loc *time.Location) WorkflowOption {
	return func(w *Workflow) {
		w.loc = loc
	}
}

// Workflow walks a calculation through date and location selection into the ledger.
type Workflow struct {
	ledger   Ledger
	profiles model.ProfileStore
	bank     BankAccount
	logger   *logger.Logger
	now      func() time.Time
	loc      *time.Location

	mu      sync.Mutex
	step    Step
	calc    Calculation
	options []DateOption
	date    string
}

func NewWorkflow(ledger Ledger, profiles model.ProfileStore, bank BankAccount, logger *logger.Logger, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		ledger:   ledger,
		profiles: profiles,
		bank:     bank,
		logger:   logger,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current workflow position.
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Start begins a workflow for calc, discarding any unfinished one, and returns
// the dates the payment may be recorded for.
func (w *Workflow) Start(calc Calculation) []DateOption {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := w.now().In(w.loc)
	yesterday := today.AddDate(0, 0, -1)
	w.options = []DateOption{
		{Label: "Today", Date: today.Format(model.DateLayout)},
		{Label: "Yesterday", Date: yesterday.Format(model.DateLayout)},
	}
	w.calc = calc
	w.date = ""
	w.step = StepChooseDate

	return append([]DateOption(nil), w.options...)
}

// SelectDate picks one of the offered dates.
func (w *Workflow) SelectDate(date string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepChooseDate {
		return model.ErrInvalidTransition
	}

	for _, opt := range w.options {
		if opt.Date == date {
			w.date = date
			w.step = StepChooseLocation
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not an offered shift date", model.ErrInvalidDate, date)
}

// SelectLocation records the payment and returns the transfer instructions.
// The workflow stays on location selection if recording fails.
func (w *Workflow) SelectLocation(ctx context.Context, location model.Location) (Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepChooseLocation {
		return Receipt{}, model.ErrInvalidTransition
	}
	if !location.Valid() {
		return Receipt{}, fmt.Errorf("%w: %q", model.ErrInvalidLocation, location)
	}

	profile, err := w.profiles.Profile(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to load profile: %w", err)
	}

	payment, err := w.ledger.Append(ctx, model.Payment{
		ID:             uuid.New(),
		Date:           w.date,
		DueAmount:      w.calc.DueAmount,
		GiftCardAmount: w.calc.GiftCard,
		GrossAmount:    decimal.NewNullDecimal(w.calc.Gross),
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to record payment: %w", err)
	}

	w.logger.Info("Payment workflow: payment recorded", "payment_id", payment.ID, "date", payment.Date, "location", location)

	receipt := Receipt{
		Payment:  payment,
		Transfer: w.bank.Instructions(payment.DueAmount, profile.Name, payment.Date, location),
	}
	w.reset()

	return receipt, nil
}

// Cancel abandons the workflow without recording anything.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

func (w *Workflow) reset() {
	w.step = StepIdle
	w.calc = Calculation{}
	w.options = nil
	w.date = ""
}
