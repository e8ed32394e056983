package router

import (
	"petmatch/internal/adapter/api/handler"
	"petmatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupUploadRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	uploadHandler := handler.GetUploadHandler()

	uploads := e.Group("/v1/uploads")
	uploads.Use(authMiddleware.Authenticate)

	uploads.POST("/pet-image", uploadHandler.UploadPetImage)
}
