package router

import (
	"studyhub-api/core/middleware"
	"studyhub-api/modules/events/controller"

	"github.com/labstack/echo/v4"
)

type EventsRouter struct {
	controller *controller.EventsController
}

func NewEventsRouter(controller *controller.EventsController) *EventsRouter {
	return &EventsRouter{controller: controller}
}

func (r *EventsRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	assessmentRoutes := v1.Group("/private/assessments")
	assessmentRoutes.Use(mw.AuthMiddleware())
	assessmentRoutes.POST("", r.controller.CreateAssessment)
	assessmentRoutes.GET("/:id", r.controller.GetAssessment)
	assessmentRoutes.PUT("/:id", r.controller.UpdateAssessment)
	assessmentRoutes.DELETE("/:id", r.controller.DeleteAssessment)

	sessionRoutes := v1.Group("/private/study-sessions")
	sessionRoutes.Use(mw.AuthMiddleware())
	sessionRoutes.POST("", r.controller.CreateStudySession)
	sessionRoutes.GET("/:id", r.controller.GetStudySession)
	sessionRoutes.PUT("/:id", r.controller.UpdateStudySession)
	sessionRoutes.DELETE("/:id", r.controller.DeleteStudySession)

	eventRoutes := v1.Group("/private/events")
	eventRoutes.Use(mw.AuthMiddleware())
	eventRoutes.POST("", r.controller.CreateCustomEvent)
	eventRoutes.GET("/:id", r.controller.GetCustomEvent)
	eventRoutes.PUT("/:id", r.controller.UpdateCustomEvent)
	eventRoutes.DELETE("/:id", r.controller.DeleteCustomEvent)

	agendaRoutes := v1.Group("/private/agenda")
	agendaRoutes.Use(mw.AuthMiddleware())
	agendaRoutes.GET("", r.controller.Agenda)
}
