package events

import (
	"studyhub-api/core/config"
	"studyhub-api/core/database"
	"studyhub-api/core/middleware"
	"studyhub-api/modules/events/controller"
	"studyhub-api/modules/events/repository"
	"studyhub-api/modules/events/router"
	"studyhub-api/modules/events/service"
	syncService "studyhub-api/modules/sync/service"
	"studyhub-api/modules/sync/worker"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, cfg *config.Config, queue *asynq.Client, sync syncService.SyncService) {
	repo := repository.NewEventsRepository(db)
	svc := service.NewEventsService(repo, queue, sync, worker.NewSyncTask)
	ctrl := controller.NewEventsController(svc)

	mw := middleware.NewMiddleware(cfg)
	router.NewEventsRouter(ctrl).Setup(e, mw)
}
