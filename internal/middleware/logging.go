package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/logging"
)

// Logging writes a concise structured line for each HTTP request.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := logging.Info()
			switch {
			case status >= 500:
				event = logging.Error().Err(err)
			case status >= 400:
				event = logging.Warn()
			}
			event.
				Str("request_id", RequestIDFromContext(c)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Dur("latency", latency).
				Str("remote_ip", c.RealIP()).
				Msg("http request")

			return err
		}
	}
}
