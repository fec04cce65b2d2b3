package server

import (
	"fmt"

	"studyhub-api/core/cache"
	"studyhub-api/core/config"
	"studyhub-api/core/database"
	"studyhub-api/core/logger"
	courses "studyhub-api/modules/courses"
	events "studyhub-api/modules/events"
	sync "studyhub-api/modules/sync"
	"studyhub-api/modules/sync/worker"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires configuration, storage, the HTTP surface and the background
// sync worker, then serves until the process exits.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	cacheClient, err := cache.InitCache(cfg.Redis)
	if err != nil {
		return err
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())

	courses.Init(e, db, cfg)

	syncService, err := sync.Init(e, db, cacheClient, cfg)
	if err != nil {
		return fmt.Errorf("init sync module: %w", err)
	}

	events.Init(e, db, cfg, queueClient, syncService)

	// Background worker executes fire-and-forget sync tasks enqueued by
	// CRUD mutations. The sync pass itself is the same synchronous call
	// the HTTP surface uses.
	workerSrv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.Handle(worker.TypeCalendarSync, worker.NewHandler(syncService))
	go func() {
		if err := workerSrv.Run(mux); err != nil {
			logger.Error("Server:AsynqWorker:Stopped", "error", err)
		}
	}()

	logger.Info("Server starting", "port", cfg.Server.Port)
	return e.Start(fmt.Sprintf(":%d", cfg.Server.Port))
}
