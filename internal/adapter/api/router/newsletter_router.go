package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

func SetupNewsletterRouter(e *echo.Echo, newsletterHandler *handler.NewsletterHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	e.POST("/v1/newsletter/subscribe", newsletterHandler.Subscribe)
	e.POST("/v1/newsletter/unsubscribe", newsletterHandler.Unsubscribe)

	adminGroup := e.Group("/v1/admin/newsletter")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.RequireAdmin)
	adminGroup.GET("/subscribers", newsletterHandler.ListSubscribers)
}
