package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/mathieu-neron/cineflix-go/internal/config"
	"github.com/mathieu-neron/cineflix-go/internal/db"
	"github.com/mathieu-neron/cineflix-go/internal/handler"
	"github.com/mathieu-neron/cineflix-go/internal/middleware"
	"github.com/mathieu-neron/cineflix-go/internal/ratelimit"
	"github.com/mathieu-neron/cineflix-go/internal/repository"
	"github.com/mathieu-neron/cineflix-go/internal/router"
	"github.com/mathieu-neron/cineflix-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "cineflix-go", "")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	middleware.InitLogger(cfg.LogLevel, "cineflix-go", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, db.Options{
		URI:       cfg.MongoURI,
		Database:  cfg.Database,
		OpTimeout: cfg.StoreTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	rdb := db.NewRedis(cfg.RedisURL)
	if rdb != nil {
		defer rdb.Close()
	}

	// Limiter: shared Redis budget when available, process-local otherwise.
	limitCfg := ratelimit.Config{
		Max:     cfg.RateLimitMax,
		Window:  cfg.RateLimitWindow,
		MaxKeys: cfg.RateLimitMaxKeys,
	}
	var limiter ratelimit.Limiter
	var trackedKeys func() int
	if rdb != nil {
		limiter = ratelimit.NewRedisLimiter(rdb, limitCfg)
	} else {
		local := ratelimit.NewSlidingWindow(limitCfg)
		limiter = local
		trackedKeys = local.Len
	}
	handler.InitMetrics(trackedKeys)

	// Repositories
	videoRepo := repository.NewVideoRepo(store.Collection(db.CollVideos))
	userRepo := repository.NewUserRepo(store.Collection(db.CollUsers))
	settingsRepo := repository.NewSettingsRepo(store.Collection(db.CollSettings))
	eventRepo := repository.NewEventRepo(store.Collection(db.CollAnalytics))

	// Services
	catalogSvc := service.NewCatalogService(videoRepo)
	userSvc := service.NewUserService(userRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	analyticsSvc := service.NewAnalyticsService(eventRepo, videoRepo)
	statsSvc := service.NewStatsService(videoRepo, userRepo)
	ingestSvc := service.NewIngestService(catalogSvc, cfg.Stores())

	retention := service.NewRetentionWorker(analyticsSvc, cfg.RetentionDays, cfg.RetentionInterval)
	go retention.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "CineFlix API",
		ServerHeader: "CineFlix",
	})

	router.Setup(app, &router.Handlers{
		Health:   handler.NewHealthHandler(store, rdb),
		Video:    handler.NewVideoHandler(catalogSvc, ingestSvc, analyticsSvc, userSvc, settingsSvc),
		User:     handler.NewUserHandler(userSvc),
		Settings: handler.NewSettingsHandler(settingsSvc),
		Stats:    handler.NewStatsHandler(statsSvc),
	}, cfg.CORSOrigins, middleware.NewRateLimit(middleware.RateLimitConfig{
		Limiter: limiter,
		Max:     cfg.RateLimitMax,
		Window:  cfg.RateLimitWindow,
		KeyFn:   middleware.KeyByUserID,
	}))

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("CineFlix backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
