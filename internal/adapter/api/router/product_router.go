package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, productHandler *handler.ProductHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	// Catalog is public.
	e.GET("/v1/products", productHandler.ListProducts)
	e.GET("/v1/products/:id", productHandler.GetProduct)

	adminGroup := e.Group("/v1/admin/products")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.RequireAdmin)

	adminGroup.POST("", productHandler.CreateProduct)
	adminGroup.PUT("/:id", productHandler.UpdateProduct)
	adminGroup.DELETE("/:id", productHandler.DeleteProduct)
}
