package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/m2m-server/internal/mail"
	servermocks "github.com/dtroode/m2m-server/internal/mocks"
	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/testutil"
)

func TestRequests_SendMonthlyReport(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	mailer := servermocks.NewRequestMailer(t)
	svc := NewRequests(store, store, mailer, time.UTC, testutil.MakeNoopLogger())

	ledger := NewLedger(store, store, nil, testutil.MakeNoopLogger())
	for _, p := range []model.Payment{
		payment("2024-03-05", "10", "5"),
		payment("2024-04-01", "20", "0"),
		payment("2024-03-20", "8", "0"),
	} {
		_, err := ledger.Append(ctx, p)
		require.NoError(t, err)
	}

	_, err := svc.SendMonthlyReport(ctx, 2024, time.March)
	require.ErrorIs(t, err, model.ErrEmailRequired)

	seedProfile(t, store, "Max", "max@example.com")

	mailer.On("SendMonthlyReport", mock.Anything, mock.MatchedBy(func(req mail.MonthlyReportRequest) bool {
		return req.UserName == "Max" &&
			req.UserEmail == "max@example.com" &&
			req.Month == "2024-03" &&
			len(req.Payments) == 2 &&
			req.Payments[0].Date == "2024-03-05" &&
			req.TotalDue.Equal(decimal.NewFromInt(18)) &&
			req.TotalGiftCard.Equal(decimal.NewFromInt(5)) &&
			req.TotalEarnings.Equal(decimal.NewFromInt(27))
	})).Return("msg-7", nil).Once()

	id, err := svc.SendMonthlyReport(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, "msg-7", id)
}

func TestRequests_SendMonthlyReport_EmptyMonth(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	mailer := servermocks.NewRequestMailer(t)
	svc := NewRequests(store, store, mailer, time.UTC, testutil.MakeNoopLogger())
	seedProfile(t, store, "Max", "max@example.com")

	mailer.On("SendMonthlyReport", mock.Anything, mock.MatchedBy(func(req mail.MonthlyReportRequest) bool {
		return req.Payments != nil && len(req.Payments) == 0 && req.TotalDue.IsZero()
	})).Return("", model.ErrMailNotSent).Once()

	_, err := svc.SendMonthlyReport(ctx, 2024, time.May)
	require.ErrorIs(t, err, model.ErrMailNotSent)
}

func TestRequests_RequestHoliday(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "exactly 31 days ahead", start: "2024-04-01", end: "2024-04-07"},
		{name: "too soon", start: "2024-03-31", end: "2024-04-07", wantErr: model.ErrHolidayLeadTime},
		{name: "end before start", start: "2024-05-10", end: "2024-05-01", wantErr: model.ErrEndBeforeStart},
		{name: "missing end", start: "2024-05-10", end: "", wantErr: model.ErrMissingFields},
		{name: "bad date", start: "10.05.2024", end: "2024-05-12", wantErr: model.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			seedProfile(t, store, "Max", "max@example.com")
			mailer := servermocks.NewRequestMailer(t)
			svc := NewRequests(store, store, mailer, time.UTC, testutil.MakeNoopLogger())
			svc.now = func() time.Time { return today }

			if tt.wantErr == nil {
				mailer.On("SendHolidayRequest", mock.Anything, mail.HolidayRequest{
					UserName:  "Max",
					UserEmail: "max@example.com",
					StartDate: tt.start,
					EndDate:   tt.end,
					Notes:     "family visit",
				}).Return("msg-h", nil).Once()
			}

			id, err := svc.RequestHoliday(ctx, tt.start, tt.end, " family visit ")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "msg-h", id)
		})
	}
}
