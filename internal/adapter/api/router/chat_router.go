package router

import (
	"petmatch/internal/adapter/api/handler"
	"petmatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateOrGet)
	chats.GET("", chatHandler.List)
	chats.GET("/:id", chatHandler.GetByID)
	chats.GET("/:id/messages", chatHandler.GetMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PUT("/:id/read", chatHandler.MarkRead)
	chats.PUT("/:id/close", chatHandler.Close)
}
