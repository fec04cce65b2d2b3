package router

import (
	"studyhub-api/core/middleware"
	"studyhub-api/modules/sync/controller"

	"github.com/labstack/echo/v4"
)

type SyncRouter struct {
	controller *controller.SyncController
}

func NewSyncRouter(controller *controller.SyncController) *SyncRouter {
	return &SyncRouter{controller: controller}
}

func (r *SyncRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())
	calendarRoutes.POST("/sync", r.controller.TriggerSync)
	calendarRoutes.GET("/settings", r.controller.GetSettings)
	calendarRoutes.PUT("/settings", r.controller.UpdateSettings)
	calendarRoutes.POST("/connection", r.controller.Connect)
	calendarRoutes.GET("/connection", r.controller.GetConnection)
	calendarRoutes.DELETE("/connection", r.controller.Disconnect)
}
