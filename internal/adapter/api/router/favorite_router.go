package router

import (
	"petmatch/internal/adapter/api/handler"
	"petmatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupFavoriteRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	favoriteHandler := handler.GetFavoriteHandler()

	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate)

	favorites.GET("", favoriteHandler.List)
	favorites.GET("/count", favoriteHandler.Count)
	favorites.POST("/:petId", favoriteHandler.Add)
	favorites.DELETE("/:petId", favoriteHandler.Remove)
	favorites.GET("/:petId", favoriteHandler.Check)
	favorites.PUT("/:petId/notify", favoriteHandler.SetNotify)
}
