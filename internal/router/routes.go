package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/digital-card/api/internal/auth"
	"github.com/octobees/digital-card/api/internal/config"
	"github.com/octobees/digital-card/api/internal/handler"
	middlewarepkg "github.com/octobees/digital-card/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Contacts *handler.ContactsHandler
	VCard    *handler.VCardHandler
	Profile  *handler.ProfileHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// public card surface
	e.GET("/c/:username/vcard", handlers.VCard.Download)
	e.GET("/c/:username/vcard/qr", handlers.VCard.QRPayload)
	e.POST("/api/contacts", handlers.Contacts.Create, middlewarepkg.ClientRateLimiter(cfg.RateLimitContacts))

	secured := e.Group("/api")
	secured.Use(middlewarepkg.Auth(jwtManager), middlewarepkg.RequireRole(auth.RoleAuthenticated))

	secured.GET("/profile", handlers.Profile.Get)
	secured.PATCH("/profile", handlers.Profile.Update)
	secured.PATCH("/settings/ghl", handlers.Profile.SaveGHLSettings)
	secured.POST("/settings/ghl/test", handlers.Profile.TestGHLConnection)
	secured.PATCH("/settings/notifications", handlers.Profile.SaveNotifications)

	secured.GET("/contacts", handlers.Contacts.List)
	secured.GET("/contacts/:id/sync-logs", handlers.Contacts.SyncLogs)
	secured.POST("/ghl/sync", handlers.Contacts.Sync)
}
