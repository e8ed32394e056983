package router

import (
	"petmatch/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

// SetupWebSocketRouter registers the realtime endpoint. Auth happens inside
// the handler via the token query parameter, not the Bearer middleware.
func SetupWebSocketRouter(e *echo.Echo) {
	wsHandler := handler.GetWebSocketHandler()

	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
