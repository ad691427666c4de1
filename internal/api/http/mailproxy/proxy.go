// Package mailproxy serves the three email endpoints the app posts to. It
// validates each request, renders the HTML body and hands the message to a
// Mailer.
package mailproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	netmail "net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/mail"
	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/report"
)

const maxBodyBytes = 1 << 20

// Mailer delivers a rendered message and returns its provider message id.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

// Proxy handles the mail endpoints.
type Proxy struct {
	mailer        Mailer
	reports       model.Storage
	senderAddress string
	centerAddress string
	location      *time.Location
	now           func() time.Time
	logger        *logger.Logger
}

func New(mailer Mailer, reports model.Storage, senderAddress, centerAddress string, location *time.Location, logger *logger.Logger) *Proxy {
	return &Proxy{
		mailer:        mailer,
		reports:       reports,
		senderAddress: senderAddress,
		centerAddress: centerAddress,
		location:      location,
		now:           time.Now,
		logger:        logger,
	}
}

// Handler returns the proxy routes wrapped in logging and security headers.
func (p *Proxy) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(mail.PathGiftCardRequest, p.GiftCardRequest)
	mux.HandleFunc(mail.PathHolidayRequest, p.HolidayRequest)
	mux.HandleFunc(mail.PathMonthlyReport, p.MonthlyReport)

	return Chain(mux, Logging(p.logger), SecurityHeaders)
}

func (p *Proxy) GiftCardRequest(w http.ResponseWriter, r *http.Request) {
	var req mail.GiftCardRequest
	if !p.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	body, err := render(giftCardTemplate, req)
	if err != nil {
		p.fail(w, err)
		return
	}

	p.send(w, r, mail.Message{
		Kind:      mail.KindGiftCardRequest,
		Sender:    p.sender(req.UserName),
		Recipient: p.centerAddress,
		Subject:   fmt.Sprintf("Gift Card Payment Request from %s", req.UserName),
		HTML:      body,
	}, "Email sent successfully")
}

func (p *Proxy) HolidayRequest(w http.ResponseWriter, r *http.Request) {
	var req mail.HolidayRequest
	if !p.decode(w, r, &req) {
		return
	}
	if err := req.Validate(p.now().In(p.location)); err != nil {
		writeValidationError(w, err)
		return
	}

	days, err := req.Days()
	if err != nil {
		writeValidationError(w, err)
		return
	}

	body, err := render(holidayTemplate, holidayView{HolidayRequest: req, DayCount: days})
	if err != nil {
		p.fail(w, err)
		return
	}

	p.send(w, r, mail.Message{
		Kind:      mail.KindHolidayRequest,
		Sender:    p.sender(req.UserName),
		Recipient: p.centerAddress,
		Subject:   fmt.Sprintf("Holiday Request from %s (%s - %s)", req.UserName, displayDate(req.StartDate), displayDate(req.EndDate)),
		HTML:      body,
	}, "Holiday request sent successfully")
}

func (p *Proxy) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	var req mail.MonthlyReportRequest
	if !p.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	month, err := req.ParseMonth()
	if err != nil {
		writeValidationError(w, err)
		return
	}
	monthName := month.Format("January 2006")

	body, err := render(reportTemplate, reportView{MonthlyReportRequest: req, MonthName: monthName})
	if err != nil {
		p.fail(w, err)
		return
	}

	attachmentKey, err := p.storeWorkbook(r.Context(), req)
	if err != nil {
		p.fail(w, err)
		return
	}

	p.send(w, r, mail.Message{
		Kind:          mail.KindMonthlyReport,
		Sender:        (&netmail.Address{Name: "M2M Payment Calculator", Address: p.senderAddress}).String(),
		Recipient:     req.UserEmail,
		Subject:       "M2M Payment Report - " + monthName,
		HTML:          body,
		AttachmentKey: attachmentKey,
	}, "Report email sent successfully")
}

func (p *Proxy) storeWorkbook(ctx context.Context, req mail.MonthlyReportRequest) (string, error) {
	workbook, err := report.BuildWorkbook(req)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/%s/%s", uuid.NewString(), report.FileName(req.Month))
	if err := p.reports.Upload(ctx, key, bytes.NewReader(workbook), int64(len(workbook)), report.ContentType); err != nil {
		return "", fmt.Errorf("failed to store report workbook: %w", err)
	}
	return key, nil
}

func (p *Proxy) send(w http.ResponseWriter, r *http.Request, msg mail.Message, success string) {
	messageID, err := p.mailer.Send(r.Context(), msg)
	if err != nil {
		p.fail(w, err)
		return
	}

	p.logger.Info("Mail proxy: message accepted", "kind", msg.Kind, "message_id", messageID)
	writeJSON(w, http.StatusOK, mail.Response{Success: true, Message: success, MessageID: messageID})
}

func (p *Proxy) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, mail.Response{Error: "Method not allowed. Please use POST."})
		return false
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, mail.Response{Error: "Invalid request body", Details: err.Error()})
		return false
	}
	return true
}

func (p *Proxy) fail(w http.ResponseWriter, err error) {
	p.logger.Error("Mail proxy: failed to send email", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, mail.Response{Error: "Failed to send email", Details: err.Error()})
}

func (p *Proxy) sender(name string) string {
	return (&netmail.Address{Name: name, Address: p.senderAddress}).String()
}

func writeValidationError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, model.ErrMissingFields):
		msg = "Missing required fields"
	case errors.Is(err, model.ErrHolidayLeadTime):
		msg = "Holiday requests must be made at least 31 days in advance"
	}
	writeJSON(w, http.StatusBadRequest, mail.Response{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body mail.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
