package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/logging"
	middlewarepkg "github.com/octobees/digital-card/api/internal/middleware"
	"github.com/octobees/digital-card/api/internal/service"
)

// currentOwner reads the authenticated owner placed on the context by the auth middleware.
func currentOwner(c echo.Context) (service.Owner, bool) {
	id, email, ok := middlewarepkg.OwnerFromContext(c)
	if !ok {
		return service.Owner{}, false
	}
	return service.Owner{ID: id, Email: email}, true
}

func validationMessage(err error) (string, bool) {
	var verr service.ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	return "", false
}

// internalError logs the cause and hides it from the client.
func internalError(c echo.Context, err error, message string) error {
	logging.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg(message)
	return Error(c, http.StatusInternalServerError, message)
}
