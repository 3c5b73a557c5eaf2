package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	orderGroup := e.Group("/v1/orders")
	orderGroup.Use(authMiddleware.Authenticate)

	orderGroup.GET("", orderHandler.ListMyOrders)
	orderGroup.GET("/:id", orderHandler.GetOrder)

	adminGroup := e.Group("/v1/admin/orders")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.RequireAdmin)

	adminGroup.GET("", orderHandler.ListOrders)
	adminGroup.PUT("/:id/status", orderHandler.UpdateStatus)
}
