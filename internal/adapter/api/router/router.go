package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

type Handlers struct {
	Product    *handler.ProductHandler
	Checkout   *handler.CheckoutHandler
	Order      *handler.OrderHandler
	Chat       *handler.ChatHandler
	Newsletter *handler.NewsletterHandler
	WebSocket  *handler.WebSocketHandler
	Health     *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupProductRouter(e, h.Product, authMiddleware, adminMiddleware)
	SetupCheckoutRouter(e, h.Checkout, authMiddleware)
	SetupOrderRouter(e, h.Order, authMiddleware, adminMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware, adminMiddleware)
	SetupNewsletterRouter(e, h.Newsletter, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
	SetupHealthRouter(e, h.Health)
}

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.CheckHealth)
}
