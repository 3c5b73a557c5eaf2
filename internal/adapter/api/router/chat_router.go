package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/adapter/api/handler"
	"storefront/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	chatGroup := e.Group("/v1/chat")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("/thread", chatHandler.GetMyThread)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.PUT("/threads/:id/read", chatHandler.MarkRead)
	chatGroup.GET("/threads/:id", chatHandler.GetThread)

	adminGroup := e.Group("/v1/admin/chat/threads")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.RequireAdmin)

	adminGroup.GET("", chatHandler.ListThreads)
	adminGroup.PUT("/:id", chatHandler.UpdateThread)
	adminGroup.DELETE("/:id", chatHandler.DeleteThread)
}
