package router

import (
	"petmatch/internal/adapter/api/handler"
	"petmatch/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupPetRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	petHandler := handler.GetPetHandler()

	// Public browse endpoints
	e.GET("/v1/pets", petHandler.List)
	e.GET("/v1/pets/:id", petHandler.GetByID)

	protected := e.Group("/v1/pets")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", petHandler.Create)
	protected.GET("/mine", petHandler.ListMine)
	protected.PUT("/:id", petHandler.Update)
	protected.DELETE("/:id", petHandler.Delete)
	protected.PUT("/:id/adopted", petHandler.MarkAdopted)

	admin := e.Group("/v1/admin/pets")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", petHandler.AdminList)
	admin.PUT("/:id/approve", petHandler.Approve)
	admin.PUT("/:id/reject", petHandler.Reject)
}
