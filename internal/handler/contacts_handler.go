package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	middlewarepkg "github.com/octobees/digital-card/api/internal/middleware"
	"github.com/octobees/digital-card/api/internal/service"
)

// ContactsManager is the contact workflow used by ContactsHandler.
type ContactsManager interface {
	Submit(ctx context.Context, req dto.CreateContactRequest, meta service.SubmissionMeta) (*service.SubmitResult, error)
	List(ctx context.Context, ownerID uuid.UUID, status string) ([]entity.Contact, error)
	SyncOwned(ctx context.Context, ownerID uuid.UUID, rawContactID string) (*service.SyncResult, error)
	SyncLogs(ctx context.Context, ownerID uuid.UUID, rawContactID string) ([]entity.SyncLog, error)
}

// ContactsHandler exposes the exchange form and the owner's contact endpoints.
type ContactsHandler struct {
	contacts ContactsManager
}

// NewContactsHandler constructs a ContactsHandler.
func NewContactsHandler(contacts ContactsManager) *ContactsHandler {
	return &ContactsHandler{contacts: contacts}
}

// Create handles POST /api/contacts requests.
func (h *ContactsHandler) Create(c echo.Context) error {
	var req dto.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	meta := service.SubmissionMeta{
		IPAddress: middlewarepkg.ClientIP(c),
		UserAgent: c.Request().UserAgent(),
	}
	result, err := h.contacts.Submit(c.Request().Context(), req, meta)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			return Error(c, http.StatusBadRequest, msg)
		}
		if errors.Is(err, service.ErrProfileNotFound) {
			return Error(c, http.StatusNotFound, "profile not found")
		}
		return internalError(c, err, "failed to save contact")
	}

	return Success(c, http.StatusCreated, "contact saved", dto.CreateContactResponse{
		ContactID: result.Contact.ID.String(),
		GHLSync:   result.Sync,
	})
}

// List handles GET /api/contacts requests.
func (h *ContactsHandler) List(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	contacts, err := h.contacts.List(c.Request().Context(), owner.ID, c.QueryParam("status"))
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			return Error(c, http.StatusBadRequest, msg)
		}
		return internalError(c, err, "failed to list contacts")
	}

	return Success(c, http.StatusOK, "contacts retrieved", contacts)
}

// Sync handles POST /api/ghl/sync requests.
func (h *ContactsHandler) Sync(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.SyncContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.ContactID == "" {
		return Error(c, http.StatusBadRequest, "contact_id is required")
	}

	result, err := h.contacts.SyncOwned(c.Request().Context(), owner.ID, req.ContactID)
	if err != nil {
		return h.contactError(c, err, "failed to sync contact")
	}

	return Success(c, http.StatusOK, "sync finished", result)
}

// SyncLogs handles GET /api/contacts/:id/sync-logs requests.
func (h *ContactsHandler) SyncLogs(c echo.Context) error {
	owner, ok := currentOwner(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	logs, err := h.contacts.SyncLogs(c.Request().Context(), owner.ID, c.Param("id"))
	if err != nil {
		return h.contactError(c, err, "failed to load sync logs")
	}

	return Success(c, http.StatusOK, "sync logs retrieved", logs)
}

func (h *ContactsHandler) contactError(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrInvalidContactID):
		return Error(c, http.StatusBadRequest, "invalid contact_id")
	case errors.Is(err, service.ErrContactNotFound):
		return Error(c, http.StatusNotFound, "contact not found")
	case errors.Is(err, service.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "profile not found")
	default:
		return internalError(c, err, message)
	}
}
