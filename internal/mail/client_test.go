package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/testutil"
)

func TestClient_SendGiftCardRequest(t *testing.T) {
	t.Parallel()

	var got GiftCardRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathGiftCardRequest, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Response{Success: true, Message: "Email sent successfully", MessageID: "msg-1"})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", time.Second, testutil.MakeNoopLogger())
	id, err := c.SendGiftCardRequest(context.Background(), GiftCardRequest{
		UserName: "Alex", Date: "2024-03-05", Amount: decimal.NewFromInt(50), Comment: "paid by card",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "Alex", got.UserName)
	assert.True(t, decimal.NewFromInt(50).Equal(got.Amount))
}

func TestClient_Failures(t *testing.T) {
	t.Parallel()

	t.Run("proxy error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(Response{Error: "Failed to send email", Details: "smtp down"})
		}))
		t.Cleanup(srv.Close)

		c := NewClient(srv.URL, time.Second, testutil.MakeNoopLogger())
		_, err := c.SendHolidayRequest(context.Background(), HolidayRequest{UserName: "Alex", StartDate: "2030-01-01", EndDate: "2030-01-02"})
		require.ErrorIs(t, err, model.ErrMailNotSent)
		assert.Contains(t, err.Error(), "smtp down")
	})

	t.Run("unreachable proxy", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(url, time.Second, testutil.MakeNoopLogger())
		_, err := c.SendMonthlyReport(context.Background(), MonthlyReportRequest{
			UserName: "Alex", UserEmail: "alex@example.com", Month: "2024-03", Payments: []ReportPayment{},
		})
		require.ErrorIs(t, err, model.ErrMailNotSent)
	})

	t.Run("invalid request is not sent", func(t *testing.T) {
		t.Parallel()
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
		t.Cleanup(srv.Close)

		c := NewClient(srv.URL, time.Second, testutil.MakeNoopLogger())
		_, err := c.SendGiftCardRequest(context.Background(), GiftCardRequest{UserName: "Alex", Date: "2024-03-05", Amount: decimal.NewFromInt(5)})
		require.ErrorIs(t, err, model.ErrMissingFields)
		assert.False(t, called)
	})
}
