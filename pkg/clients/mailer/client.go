package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smarttechsol/stockdesk/internal/config"
)

// Client exposes the outbound mail operations used by the application.
type Client interface {
	SendMail(ctx context.Context, msg Message) error
}

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// APIClient is a resty-backed implementation of Client targeting an
// HTTP mail delivery API.
type APIClient struct {
	httpClient *resty.Client
	from       string
}

// NewClient builds a mail API client using the provided configuration values.
func NewClient(cfg config.MailerConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		from:       cfg.From,
	}
}

// apiError represents a mail API error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendMail delivers one plain-text email.
func (c *APIClient) SendMail(ctx context.Context, msg Message) error {
	payload := map[string]any{
		"from":    c.from,
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Body,
	}

	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr).
		Post("/v1/messages")
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return fmt.Errorf("mail api error: code=%d, message=%s", code, message)
	}

	return nil
}
