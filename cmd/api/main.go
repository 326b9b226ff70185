package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/community"
	"server/internal/generate"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/imagegen"
	"server/internal/providers/llm"
	"server/internal/providers/media"
	"server/internal/storage"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// DB pool (pgxpool)
	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	creations := repo.NewCreationRepository(runner)
	users := repo.NewUserRepository(runner)
	events := repo.NewUsageRepository(runner)

	// Providers
	completer, err := llm.NewClient(llm.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure language model client")
	}
	synthesizer, err := imagegen.NewClient(imagegen.Options{
		APIKey:  cfg.ClipdropAPIKey,
		BaseURL: cfg.ClipdropBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image client")
	}

	// Media backend: Cloudinary when configured, local filesystem otherwise.
	var uploader media.Uploader
	staticDir := ""
	if cfg.UseCloudinary() {
		uploader, err = media.NewCloudinary(media.CloudinaryOptions{
			CloudName:     cfg.CloudinaryCloudName,
			APIKey:        cfg.CloudinaryAPIKey,
			APISecret:     cfg.CloudinaryAPISecret,
			UploadBaseURL: cfg.CloudinaryBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure cloudinary")
		}
	} else {
		store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare storage directory")
		}
		uploader = store
		staticDir = store.BasePath()
	}

	workflow := &generate.Workflow{
		Gate: generate.Gate{Users: users},
		Adapter: &generate.Adapter{
			Completer:   completer,
			Synthesizer: synthesizer,
			Media:       uploader,
		},
		Creations: creations,
		Events:    events,
		Logger:    logger,
	}
	feed := community.NewFeed(creations)

	app := &handlers.App{
		Logger:   logger,
		Config:   cfg,
		Generate: workflow,
		Feed:     feed,
	}

	// GeoIP untuk deteksi negara (opsional)
	var countryLookup middleware.CountryLookup
	if cfg.GeoIPDBPath != "" {
		resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("geoip database unavailable, country detection disabled")
		} else if resolver != nil {
			if closer, ok := resolver.(io.Closer); ok {
				defer closer.Close()
			}
			countryLookup = resolver.CountryCode
		}
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Auth:      middleware.Auth(cfg.JWTSecret, users),
		I18N:      middleware.I18N(cfg.DefaultLocale, countryLookup),
		StaticDir: staticDir,
	})

	// HTTP server wrapper dari infra
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
