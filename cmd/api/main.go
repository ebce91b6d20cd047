package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/config"
	"hiringdesk/resume-intake/internal/handlers"
	"hiringdesk/resume-intake/internal/logger"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/server"
	"hiringdesk/resume-intake/internal/services"
)

// multipartOverhead leaves room for form boundaries and the batchId field.
const multipartOverhead = 1 << 20

func main() {
	cfg := config.Load()
	logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	userRepo := repositories.NewUserRepository(db)
	batchRepo := repositories.NewBatchRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	log.Info().Msg("✅ Repositories initialized successfully")

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize storage")
	}
	if err := storageService.EnsureReady(ctx); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("❌ Storage is not ready")
	}

	statsCache := services.NewNoopStatsCache()
	if cfg.Redis.Addr != "" {
		cache, client, err := services.NewRedisStatsCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize Redis")
		}
		defer client.Close()
		statsCache = cache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("✅ Redis stats cache enabled")
	}

	tokens := auth.NewTokenService(cfg.JWT)
	hasher := auth.NewPasswordHasher(cfg.Password)

	statsService := services.NewStatsService(resumeRepo, statsCache)
	accountService := services.NewAccountService(userRepo, tokens, hasher)
	intakeService := services.NewIntakeService(
		batchRepo,
		resumeRepo,
		storageService,
		services.NewPDFParserService(),
		statsService,
		cfg.Storage.MaxFileSize,
	)
	log.Info().Msg("✅ Services initialized successfully")

	app := server.New(server.Options{
		BodyLimit:     int(cfg.Storage.MaxFileSize) + multipartOverhead,
		AccessLog:     true,
		Tokens:        tokens,
		AuthHandler:   handlers.NewAuthHandler(accountService),
		BatchHandler:  handlers.NewBatchHandler(batchRepo, resumeRepo, statsService),
		UploadHandler: handlers.NewUploadHandler(intakeService, cfg.Storage.MaxFileSize),
		ResultHandler: handlers.NewResultHandler(resumeRepo, statsService, intakeService),
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("❌ Failed to start server")
		os.Exit(1)
	}
}
