package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, authMiddleware *middleware.AuthMiddleware) {
	// Authenticated connection: joins the user channel, and the admin
	// broadcast for admin actors.
	e.GET("/ws", wsHandler.Connect, authMiddleware.Authenticate)

	// Anonymous storefront connection: global broadcasts only, used for live
	// stock on product pages.
	e.GET("/ws/storefront", wsHandler.Connect)
}
