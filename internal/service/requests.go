package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/m2m-server/internal/calendar"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/mail"
	"github.com/dtroode/m2m-server/internal/model"
)

// RequestMailer sends holiday requests and monthly reports.
type RequestMailer interface {
	SendHolidayRequest(ctx context.Context, req mail.HolidayRequest) (string, error)
	SendMonthlyReport(ctx context.Context, req mail.MonthlyReportRequest) (string, error)
}

// Requests sends the therapist's outbound requests to the center.
type Requests struct {
	payments model.PaymentStore
	profiles model.ProfileStore
	mailer   RequestMailer
	location *time.Location
	now      func() time.Time
	logger   *logger.Logger
}

func NewRequests(payments model.PaymentStore, profiles model.ProfileStore, mailer RequestMailer, location *time.Location, logger *logger.Logger) *Requests {
	if location == nil {
		location = time.Local
	}
	return &Requests{
		payments: payments,
		profiles: profiles,
		mailer:   mailer,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// SendMonthlyReport emails the ledger summary of a month to the profile email.
func (s *Requests) SendMonthlyReport(ctx context.Context, year int, month time.Month) (string, error) {
	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return "", model.ErrEmailRequired
	}

	payments, err := s.payments.Payments(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list payments: %w", err)
	}

	monthly := calendar.PaymentsInMonth(payments, year, month)
	totals := calendar.MonthlyTotals(payments, year, month)

	lines := make([]mail.ReportPayment, 0, len(monthly))
	for _, p := range monthly {
		lines = append(lines, mail.ReportPayment{
			Date:           p.Date,
			DueAmount:      p.DueAmount,
			GiftCardAmount: p.GiftCardAmount,
			Note:           p.Note,
		})
	}

	req := mail.MonthlyReportRequest{
		UserName:      profile.Name,
		UserEmail:     profile.Email,
		Month:         time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(mail.MonthLayout),
		Payments:      lines,
		TotalDue:      totals.Due,
		TotalGiftCard: totals.GiftCard,
		TotalEarnings: totals.Earnings.Round(2),
	}

	messageID, err := s.mailer.SendMonthlyReport(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to send monthly report: %w", err)
	}

	s.logger.Info("Requests service: monthly report sent", "month", req.Month, "payments", len(lines), "message_id", messageID)
	return messageID, nil
}

// RequestHoliday validates and sends a holiday request.
func (s *Requests) RequestHoliday(ctx context.Context, startDate, endDate, notes string) (string, error) {
	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}

	req := mail.HolidayRequest{
		UserName:  profile.Name,
		UserEmail: profile.Email,
		StartDate: strings.TrimSpace(startDate),
		EndDate:   strings.TrimSpace(endDate),
		Notes:     strings.TrimSpace(notes),
	}
	if err := req.Validate(s.now().In(s.location)); err != nil {
		return "", err
	}

	messageID, err := s.mailer.SendHolidayRequest(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to send holiday request: %w", err)
	}

	days, _ := req.Days()
	s.logger.Info("Requests service: holiday requested", "start", req.StartDate, "end", req.EndDate, "days", days, "message_id", messageID)
	return messageID, nil
}
