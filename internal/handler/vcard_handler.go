package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/service"
	"github.com/octobees/digital-card/api/internal/vcard"
)

const vcardContentType = "text/vcard; charset=utf-8"

// VCardRenderer produces vCards for public profiles.
type VCardRenderer interface {
	Render(ctx context.Context, username string) (*service.VCardDocument, error)
	RenderCompact(ctx context.Context, username string) (string, error)
}

// VCardHandler serves the "save contact" downloads.
type VCardHandler struct {
	renderer VCardRenderer
}

// NewVCardHandler constructs a VCardHandler.
func NewVCardHandler(renderer VCardRenderer) *VCardHandler {
	return &VCardHandler{renderer: renderer}
}

// Download handles GET /c/:username/vcard requests.
func (h *VCardHandler) Download(c echo.Context) error {
	doc, err := h.renderer.Render(c.Request().Context(), c.Param("username"))
	if err != nil {
		return h.renderError(c, err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	return c.Blob(http.StatusOK, vcardContentType, []byte(doc.Content))
}

// QRPayload handles GET /c/:username/vcard/qr requests.
func (h *VCardHandler) QRPayload(c echo.Context) error {
	payload, err := h.renderer.RenderCompact(c.Request().Context(), c.Param("username"))
	if err != nil {
		return h.renderError(c, err)
	}
	return c.String(http.StatusOK, payload)
}

func (h *VCardHandler) renderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "profile not found")
	case errors.Is(err, vcard.ErrMissingFullName):
		return Error(c, http.StatusUnprocessableEntity, "profile has no name to export")
	default:
		return internalError(c, err, "failed to render vcard")
	}
}
