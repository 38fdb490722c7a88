package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/digital-card/api/internal/auth"
	"github.com/octobees/digital-card/api/internal/config"
	"github.com/octobees/digital-card/api/internal/database"
	"github.com/octobees/digital-card/api/internal/ghl"
	"github.com/octobees/digital-card/api/internal/handler"
	"github.com/octobees/digital-card/api/internal/logging"
	middlewarepkg "github.com/octobees/digital-card/api/internal/middleware"
	"github.com/octobees/digital-card/api/internal/repository"
	"github.com/octobees/digital-card/api/internal/router"
	"github.com/octobees/digital-card/api/internal/service"
	"github.com/octobees/digital-card/api/internal/vcard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err, "failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal(err, "failed to connect database")
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 0, cfg.JWTAudience)

	profilesRepo := repository.NewPGXProfilesRepository(pool)
	contactsRepo := repository.NewPGXContactsRepository(pool)
	syncLogsRepo := repository.NewPGXSyncLogsRepository(pool)

	ghlHTTP := &http.Client{Timeout: cfg.GHL.Timeout}
	newCRMClient := func(apiKey, locationID string) service.CRMClient {
		return ghl.New(apiKey, locationID,
			ghl.WithBaseURL(cfg.GHL.BaseURL),
			ghl.WithAPIVersion(cfg.GHL.APIVersion),
			ghl.WithHTTPClient(ghlHTTP),
		)
	}
	photos := vcard.NewHTTPPhotoFetcher(&http.Client{Timeout: cfg.Photo.Timeout}, cfg.Photo.MaxBytes)

	syncService := service.NewSyncService(contactsRepo, profilesRepo, syncLogsRepo, newCRMClient)
	contactsService := service.NewContactsService(contactsRepo, syncLogsRepo, syncService, cfg.DefaultPhoneRegion)
	profileService := service.NewProfileService(profilesRepo, newCRMClient)
	vcardService := service.NewVCardService(profilesRepo, photos)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = middlewarepkg.IPExtractor(cfg.TrustedProxies)

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Contacts: handler.NewContactsHandler(contactsService),
		VCard:    handler.NewVCardHandler(vcardService),
		Profile:  handler.NewProfileHandler(profileService),
	})

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("port", cfg.Port).Msg("api listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(err, "server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func fatal(err error, msg string) {
	logging.Error().Err(err).Msg(msg)
	os.Exit(1)
}
