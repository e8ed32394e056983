package router

import (
	"petmatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupPetRouter(e, authMiddleware, adminMiddleware)
	SetupFavoriteRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
