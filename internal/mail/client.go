package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// Client posts email requests to the mail proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) SendGiftCardRequest(ctx context.Context, req GiftCardRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return c.post(ctx, PathGiftCardRequest, req)
}

func (c *Client) SendHolidayRequest(ctx context.Context, req HolidayRequest) (string, error) {
	return c.post(ctx, PathHolidayRequest, req)
}

func (c *Client) SendMonthlyReport(ctx context.Context, req MonthlyReportRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return c.post(ctx, PathMonthlyReport, req)
}

func (c *Client) post(ctx context.Context, path string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrMailNotSent, err)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: unreadable proxy response (status %d)", model.ErrMailNotSent, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !out.Success {
		c.logger.Warn("Mail client: proxy rejected request", "path", path, "status", resp.StatusCode, "error", out.Error)
		return "", fmt.Errorf("%w: %s", model.ErrMailNotSent, describe(out, resp.StatusCode))
	}

	return out.MessageID, nil
}

func describe(out Response, status int) string {
	msg := out.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	if out.Details != "" {
		msg += ": " + out.Details
	}
	return msg
}
