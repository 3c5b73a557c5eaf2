package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

// CheckoutItem is one line of a checkout session request.
type CheckoutItem struct {
	Name     string
	Amount   float64 // unit price in the store currency
	Quantity int
	Image    string
}

type CheckoutSessionRequest struct {
	OrderID       string
	CustomerEmail string
	Items         []CheckoutItem
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID          string `json:"id"`
	RedirectURL string `json:"url"`
}

// PaymentService creates a hosted checkout session and hands back a redirect
// URL. The gateway is opaque to the rest of the system.
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
}

const stripeBaseURL = "https://api.stripe.com/v1"

type StripeCheckoutService struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeCheckoutService(secretKey string) *StripeCheckoutService {
	return &StripeCheckoutService{
		secretKey:  secretKey,
		baseURL:    stripeBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *StripeCheckoutService) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	logger.Info("Creating checkout session for order %s (%d items)", req.OrderID, len(req.Items))

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("client_reference_id", req.OrderID)
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}

	for i, item := range req.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", "usd")
		// Stripe amounts are integer cents.
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(int64(item.Amount*100+0.5), 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Image)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Internal("Failed to build checkout request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Upstream("Payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Upstream("Failed to read payment gateway response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("Checkout session creation failed for order %s: status %d, body %s", req.OrderID, resp.StatusCode, string(body))
		return nil, errors.Upstream("Payment gateway rejected checkout session", nil)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, errors.Upstream("Failed to parse payment gateway response", err)
	}

	logger.Info("Checkout session %s created for order %s", session.ID, req.OrderID)
	return &session, nil
}
