package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/service"
)

// ProfileManager is the owner-side profile and settings workflow.
type ProfileManager interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, owner service.Owner, req dto.UpdateProfileRequest) (*entity.Profile, error)
	SaveGHLSettings(ctx context.Context, owner service.Owner, req dto.GHLSettingsRequest) (*entity.Profile, error)
	TestGHLConnection(ctx context.Context, req dto.GHLTestRequest) error
	SaveNotifications(ctx context.Context, ownerID uuid.UUID, req dto.NotificationSettingsRequest) (*entity.Profile, error)
}

// ProfileHandler exposes the owner's profile and settings endpoints.
type ProfileHandler struct {
	profiles ProfileManager
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles ProfileManager) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/profile requests.
func (h *ProfileHandler) Get(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.profiles.Get(c.Request().Context(), owner.ID)
	if err != nil {
		return h.profileError(c, err, "failed to load profile")
	}
	return Success(c, http.StatusOK, "profile retrieved", profile)
}

// Update handles PATCH /api/profile requests.
func (h *ProfileHandler) Update(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.profiles.Update(c.Request().Context(), owner, req)
	if err != nil {
		return h.profileError(c, err, "failed to save profile")
	}
	return Success(c, http.StatusOK, "profile updated", profile)
}

// SaveGHLSettings handles PATCH /api/settings/ghl requests.
func (h *ProfileHandler) SaveGHLSettings(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.GHLSettingsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.profiles.SaveGHLSettings(c.Request().Context(), owner, req)
	if err != nil {
		return h.profileError(c, err, "failed to save ghl settings")
	}
	return Success(c, http.StatusOK, "ghl settings updated", profile)
}

// TestGHLConnection handles POST /api/settings/ghl/test requests.
func (h *ProfileHandler) TestGHLConnection(c echo.Context) error {
	if _, ok := currentOwner(c); !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.GHLTestRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if err := h.profiles.TestGHLConnection(c.Request().Context(), req); err != nil {
		return h.profileError(c, err, "failed to test ghl connection")
	}
	return Success(c, http.StatusOK, "Connection successful", map[string]bool{"success": true})
}

// SaveNotifications handles PATCH /api/settings/notifications requests.
func (h *ProfileHandler) SaveNotifications(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.NotificationSettingsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.profiles.SaveNotifications(c.Request().Context(), owner.ID, req)
	if err != nil {
		return h.profileError(c, err, "failed to save notification settings")
	}
	return Success(c, http.StatusOK, "notification settings updated", profile)
}

func (h *ProfileHandler) profileError(c echo.Context, err error, message string) error {
	if msg, ok := validationMessage(err); ok {
		return Error(c, http.StatusBadRequest, msg)
	}
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "profile not found")
	case errors.Is(err, service.ErrUsernameTaken):
		return Error(c, http.StatusConflict, err.Error())
	default:
		return internalError(c, err, message)
	}
}
