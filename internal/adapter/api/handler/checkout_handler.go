package handler

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/middleware"
	"storefront/internal/usecase"
	"storefront/pkg/response"
)

type CheckoutHandler struct {
	checkoutUseCase *usecase.CheckoutUseCase
}

func NewCheckoutHandler(checkoutUseCase *usecase.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
	}
}

// Checkout turns the submitted cart into a pending order and returns the
// payment redirect URL.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req usecase.CheckoutInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actor := middleware.ActorFrom(c)
	result, err := h.checkoutUseCase.Checkout(c.Request().Context(), actor.UserID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

type paymentWebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// PaymentWebhook receives checkout-session events from the payment gateway.
// Only completed sessions are acted on; everything else is acknowledged and
// dropped.
func (h *CheckoutHandler) PaymentWebhook(c echo.Context) error {
	var req paymentWebhookRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if req.Type != "checkout.session.completed" {
		return response.Success(c, map[string]string{"status": "ignored"})
	}

	order, err := h.checkoutUseCase.MarkPaid(c.Request().Context(), req.Data.Object.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
