package sync

import (
	"studyhub-api/core/cache"
	"studyhub-api/core/config"
	"studyhub-api/core/crypto"
	"studyhub-api/core/database"
	"studyhub-api/core/middleware"
	coursesRepo "studyhub-api/modules/courses/repository"
	eventsRepo "studyhub-api/modules/events/repository"
	"studyhub-api/modules/sync/controller"
	"studyhub-api/modules/sync/repository"
	"studyhub-api/modules/sync/router"
	"studyhub-api/modules/sync/service"

	"github.com/labstack/echo/v4"
)

// Init wires the sync module and returns the service so the events module
// and the background worker can reach it.
func Init(e *echo.Echo, db database.IDatabase, cacheClient cache.Cache, cfg *config.Config) (service.SyncService, error) {
	encryptor, err := crypto.NewEncryptor(cfg.Crypto.TokenKey)
	if err != nil {
		return nil, err
	}

	connectionRepo := repository.NewConnectionRepository(db)
	settingsRepo := repository.NewSyncSettingsRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	calendarClient := service.NewGoogleCalendarClient(cfg.GoogleAPI)
	tokenService := service.NewTokenService(cfg.GoogleAPI)
	webhookService := service.NewWebhookService(webhookRepo, calendarClient, cfg)

	syncService := service.NewSyncService(
		connectionRepo,
		settingsRepo,
		eventsRepo.NewEventsRepository(db),
		coursesRepo.NewCoursesRepository(db),
		tokenService,
		calendarClient,
		webhookService,
		cacheClient,
		encryptor,
		cfg,
	)

	ctrl := controller.NewSyncController(syncService)
	mw := middleware.NewMiddleware(cfg)
	router.NewSyncRouter(ctrl).Setup(e, mw)

	return syncService, nil
}
