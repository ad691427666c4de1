package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/calculator"
	"github.com/dtroode/m2m-server/internal/calendar"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// LedgerService reads and edits recorded payments.
type LedgerService interface {
	List(ctx context.Context) ([]model.Payment, error)
	ListByDate(ctx context.Context, date string) ([]model.Payment, error)
	SetNote(ctx context.Context, id uuid.UUID, note string) (model.Payment, error)
	RemoveByID(ctx context.Context, id uuid.UUID) (bool, error)
	RequestGiftCardPayment(ctx context.Context, id uuid.UUID, giftCardNumber, comment string) (model.Payment, error)
}

// PaymentWorkflow records a calculated payment in two steps.
type PaymentWorkflow interface {
	Start(calc calculator.Calculation) []calculator.DateOption
	SelectDate(date string) error
	SelectLocation(ctx context.Context, location model.Location) (calculator.Receipt, error)
	Cancel()
	Step() calculator.Step
}

// CalendarView renders month grids and keeps the month cursor.
type CalendarView interface {
	Cursor() (int, time.Month)
	Render(ctx context.Context) (calendar.MonthView, error)
	Show(ctx context.Context, year int, month time.Month) (calendar.MonthView, error)
	Prev(ctx context.Context) (calendar.MonthView, error)
	Next(ctx context.Context) (calendar.MonthView, error)
	Today(ctx context.Context) (calendar.MonthView, error)
}

// RequestService sends outbound requests to the center.
type RequestService interface {
	SendMonthlyReport(ctx context.Context, year int, month time.Month) (string, error)
	RequestHoliday(ctx context.Context, startDate, endDate, notes string) (string, error)
}

var _ LedgerServer = (*LedgerHandler)(nil)

// LedgerHandler serves payment recording, history and request endpoints.
type LedgerHandler struct {
	ledger   LedgerService
	workflow PaymentWorkflow
	view     CalendarView
	requests RequestService
	logger   *logger.Logger
}

func NewLedger(ledger LedgerService, workflow PaymentWorkflow, view CalendarView, requests RequestService, logger *logger.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledger,
		workflow: workflow,
		view:     view,
		requests: requests,
		logger:   logger,
	}
}

func (h *LedgerHandler) Calculate(_ context.Context, req *CalculateRequest) (*Calculation, error) {
	calc := calculate(req)
	out := toCalculation(calc)
	return &out, nil
}

func (h *LedgerHandler) StartPayment(_ context.Context, req *CalculateRequest) (*StartPaymentResponse, error) {
	calc := calculate(req)
	options := h.workflow.Start(calc)

	dates := make([]DateOption, 0, len(options))
	for _, opt := range options {
		dates = append(dates, DateOption{Label: opt.Label, Date: opt.Date})
	}

	h.logger.Debug("Ledger handler: payment workflow started", "due", calc.DueAmount.StringFixed(2))
	return &StartPaymentResponse{Calculation: toCalculation(calc), Dates: dates}, nil
}

func (h *LedgerHandler) SelectDate(_ context.Context, req *SelectDateRequest) (*StepResponse, error) {
	if err := h.workflow.SelectDate(req.Date); err != nil {
		return nil, handleError(err)
	}

	locations := make([]string, 0, len(model.Locations))
	for _, loc := range model.Locations {
		locations = append(locations, string(loc))
	}
	return &StepResponse{Step: h.workflow.Step().String(), Locations: locations}, nil
}

func (h *LedgerHandler) SelectLocation(ctx context.Context, req *SelectLocationRequest) (*ReceiptResponse, error) {
	receipt, err := h.workflow.SelectLocation(ctx, model.Location(req.Location))
	if err != nil {
		h.logger.Info("Ledger handler: payment not recorded", "location", req.Location, "error", err.Error())
		return nil, handleError(err)
	}

	return &ReceiptResponse{
		Payment: toPayment(receipt.Payment),
		Transfer: Transfer{
			AccountHolder: receipt.Transfer.AccountHolder,
			IBAN:          receipt.Transfer.IBAN,
			Amount:        receipt.Transfer.Amount,
			Reference:     receipt.Transfer.Reference,
		},
	}, nil
}

func (h *LedgerHandler) CancelPayment(_ context.Context, _ *Empty) (*StepResponse, error) {
	h.workflow.Cancel()
	return &StepResponse{Step: h.workflow.Step().String()}, nil
}

func (h *LedgerHandler) ListPayments(ctx context.Context, _ *Empty) (*PaymentsResponse, error) {
	payments, err := h.ledger.List(ctx)
	if err != nil {
		h.logger.Error("Ledger handler: failed to list payments", "error", err.Error())
		return nil, handleError(err)
	}
	return &PaymentsResponse{Payments: toPayments(payments)}, nil
}

func (h *LedgerHandler) DailyPayments(ctx context.Context, req *DateRequest) (*PaymentsResponse, error) {
	payments, err := h.ledger.ListByDate(ctx, req.Date)
	if err != nil {
		return nil, handleError(err)
	}
	return &PaymentsResponse{Payments: toPayments(payments)}, nil
}

func (h *LedgerHandler) SetNote(ctx context.Context, req *SetNoteRequest) (*Payment, error) {
	id, err := parsePaymentID(req.ID)
	if err != nil {
		return nil, handleError(err)
	}

	p, err := h.ledger.SetNote(ctx, id, req.Note)
	if err != nil {
		return nil, handleError(err)
	}
	out := toPayment(p)
	return &out, nil
}

func (h *LedgerHandler) DeletePayment(ctx context.Context, req *PaymentIDRequest) (*DeleteResponse, error) {
	id, err := parsePaymentID(req.ID)
	if err != nil {
		return nil, handleError(err)
	}

	deleted, err := h.ledger.RemoveByID(ctx, id)
	if err != nil {
		h.logger.Error("Ledger handler: failed to delete payment", "payment_id", id, "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Ledger handler: payment delete processed", "payment_id", id, "deleted", deleted)
	return &DeleteResponse{Deleted: deleted}, nil
}

func (h *LedgerHandler) RequestGiftCardPayment(ctx context.Context, req *GiftCardPaymentRequest) (*Payment, error) {
	id, err := parsePaymentID(req.ID)
	if err != nil {
		return nil, handleError(err)
	}

	p, err := h.ledger.RequestGiftCardPayment(ctx, id, req.GiftCardNumber, req.Comment)
	if err != nil {
		return nil, handleError(err)
	}
	out := toPayment(p)
	return &out, nil
}

func (h *LedgerHandler) Month(ctx context.Context, req *MonthRequest) (*MonthResponse, error) {
	var (
		view calendar.MonthView
		err  error
	)

	switch req.Navigate {
	case NavigatePrev:
		view, err = h.view.Prev(ctx)
	case NavigateNext:
		view, err = h.view.Next(ctx)
	case NavigateToday:
		view, err = h.view.Today(ctx)
	case "":
		if req.Year == 0 && req.Month == 0 {
			view, err = h.view.Render(ctx)
			break
		}
		year, month, perr := monthOf(req)
		if perr != nil {
			return nil, handleError(perr)
		}
		view, err = h.view.Show(ctx, year, month)
	default:
		return nil, handleError(fmt.Errorf("%w: navigate %q", model.ErrMissingFields, req.Navigate))
	}
	if err != nil {
		return nil, handleError(err)
	}

	return toMonth(view), nil
}

func (h *LedgerHandler) SendMonthlyReport(ctx context.Context, req *MonthRequest) (*MessageResponse, error) {
	year, month := h.view.Cursor()
	if req.Year != 0 || req.Month != 0 {
		var err error
		if year, month, err = monthOf(req); err != nil {
			return nil, handleError(err)
		}
	}

	messageID, err := h.requests.SendMonthlyReport(ctx, year, month)
	if err != nil {
		h.logger.Info("Ledger handler: monthly report not sent", "year", year, "month", int(month), "error", err.Error())
		return nil, handleError(err)
	}
	return &MessageResponse{MessageID: messageID}, nil
}

func (h *LedgerHandler) RequestHoliday(ctx context.Context, req *HolidayRequest) (*MessageResponse, error) {
	messageID, err := h.requests.RequestHoliday(ctx, req.StartDate, req.EndDate, req.Notes)
	if err != nil {
		h.logger.Info("Ledger handler: holiday request not sent", "error", err.Error())
		return nil, handleError(err)
	}
	return &MessageResponse{MessageID: messageID}, nil
}

func (h *LedgerHandler) EvaluateExpression(_ context.Context, req *ExpressionRequest) (*ExpressionResponse, error) {
	result, err := calculator.Evaluate(req.Expression)
	if err != nil {
		return nil, handleError(err)
	}
	return &ExpressionResponse{Result: calculator.FormatResult(result)}, nil
}

func calculate(req *CalculateRequest) calculator.Calculation {
	return calculator.Calculate(calculator.ParseAmount(req.Regular), calculator.ParseAmount(req.GiftCard))
}

func parsePaymentID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: payment id %q", model.ErrNotFound, raw)
	}
	return id, nil
}

func monthOf(req *MonthRequest) (int, time.Month, error) {
	if req.Year < 1 || req.Month < 1 || req.Month > 12 {
		return 0, 0, fmt.Errorf("%w: month %d/%d", model.ErrInvalidDate, req.Month, req.Year)
	}
	return req.Year, time.Month(req.Month), nil
}
