package router

import (
	"studyhub-api/core/middleware"
	"studyhub-api/modules/courses/controller"

	"github.com/labstack/echo/v4"
)

type CoursesRouter struct {
	controller *controller.CoursesController
}

func NewCoursesRouter(controller *controller.CoursesController) *CoursesRouter {
	return &CoursesRouter{controller: controller}
}

func (r *CoursesRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	courseRoutes := v1.Group("/private/courses")
	courseRoutes.Use(mw.AuthMiddleware())
	courseRoutes.POST("", r.controller.CreateCourse)
	courseRoutes.GET("", r.controller.ListCourses)
	courseRoutes.PUT("/:id", r.controller.UpdateCourse)
	courseRoutes.DELETE("/:id", r.controller.DeleteCourse)

	semesterRoutes := v1.Group("/private/semesters")
	semesterRoutes.Use(mw.AuthMiddleware())
	semesterRoutes.POST("", r.controller.CreateSemester)
	semesterRoutes.GET("", r.controller.ListSemesters)
}
