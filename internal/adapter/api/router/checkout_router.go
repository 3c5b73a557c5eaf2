package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

func SetupCheckoutRouter(e *echo.Echo, checkoutHandler *handler.CheckoutHandler, authMiddleware *middleware.AuthMiddleware) {
	checkoutGroup := e.Group("/v1/checkout")
	checkoutGroup.Use(authMiddleware.Authenticate)
	checkoutGroup.POST("", checkoutHandler.Checkout)

	// The gateway calls this, not a browser; it carries no bearer token.
	e.POST("/v1/webhooks/payment", checkoutHandler.PaymentWebhook)
}
