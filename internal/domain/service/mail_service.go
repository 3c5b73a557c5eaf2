package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

type Email struct {
	To       string                 `json:"to"`
	Subject  string                 `json:"subject"`
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// MailService delivers transactional email through an external provider.
// Delivery is best-effort; callers that cannot tolerate latency should use
// SendAsync.
type MailService interface {
	Send(ctx context.Context, email Email) error
}

type HTTPMailService struct {
	providerURL string
	apiKey      string
	fromAddress string
	httpClient  *http.Client
}

func NewHTTPMailService(providerURL, apiKey, fromAddress string) *HTTPMailService {
	return &HTTPMailService{
		providerURL: providerURL,
		apiKey:      apiKey,
		fromAddress: fromAddress,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *HTTPMailService) Send(ctx context.Context, email Email) error {
	payload := struct {
		From string `json:"from"`
		Email
	}{From: m.fromAddress, Email: email}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Internal("Failed to encode email payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.providerURL, bytes.NewReader(body))
	if err != nil {
		return errors.Internal("Failed to build email request", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errors.Upstream("Mail provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Upstream("Mail provider rejected message", nil)
	}
	return nil
}

// SendAsync fires the email on a background goroutine. Failures are logged
// and never surfaced to the caller.
func SendAsync(m MailService, email Email) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.Send(ctx, email); err != nil {
			logger.Error("Failed to send %s email to %s: %v", email.Template, email.To, err)
		}
	}()
}
