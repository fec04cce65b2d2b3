package courses

import (
	"studyhub-api/core/config"
	"studyhub-api/core/database"
	"studyhub-api/core/middleware"
	"studyhub-api/modules/courses/controller"
	"studyhub-api/modules/courses/repository"
	"studyhub-api/modules/courses/router"
	"studyhub-api/modules/courses/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config) {
	repo := repository.NewCoursesRepository(db)
	svc := service.NewCoursesService(repo)
	ctrl := controller.NewCoursesController(svc)

	mw := middleware.NewMiddleware(cfg)
	router.NewCoursesRouter(ctrl).Setup(e, mw)
}
