package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/logging"
	"github.com/octobees/digital-card/api/internal/repository"
)

// SaveGHLSettings stores the CRM credentials. A missing profile is created with a placeholder name.
func (s *ProfileService) SaveGHLSettings(ctx context.Context, owner Owner, req dto.GHLSettingsRequest) (*entity.Profile, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	autoSync := true
	if req.AutoSync != nil {
		autoSync = *req.AutoSync
	}

	seed := entity.Profile{ID: owner.ID, Email: owner.Email, FullName: owner.seedName()}
	return s.profiles.UpsertGHLSettings(ctx, seed, repository.GHLSettings{
		APIKey:     optional(&req.APIKey),
		LocationID: optional(&req.LocationID),
		AutoSync:   autoSync,
		Connected:  req.Connected,
	})
}

// TestGHLConnection checks credentials against the CRM before they are saved.
// Rejected credentials come back as a ValidationError with a user-facing message.
func (s *ProfileService) TestGHLConnection(ctx context.Context, req dto.GHLTestRequest) error {
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.LocationID = strings.TrimSpace(req.LocationID)
	if req.APIKey == "" || req.LocationID == "" {
		return invalid("API Key and Location ID are required")
	}

	result := s.newClient(req.APIKey, req.LocationID).TestConnection(ctx)
	if result.Success {
		return nil
	}

	logging.Ctx(ctx).Warn().Int("status", result.StatusCode).Str("error", result.Error).Msg("ghl connection test failed")
	switch result.StatusCode {
	case http.StatusUnauthorized:
		return invalid("Invalid API Key")
	case http.StatusNotFound:
		return invalid("Location not found. Check your Location ID.")
	default:
		return invalid("Connection failed. Please check your credentials.")
	}
}

// SaveNotifications stores the owner's alert preferences; omitted flags are enabled.
func (s *ProfileService) SaveNotifications(ctx context.Context, ownerID uuid.UUID, req dto.NotificationSettingsRequest) (*entity.Profile, error) {
	newContact, syncFail := true, true
	if req.NotifyNewContact != nil {
		newContact = *req.NotifyNewContact
	}
	if req.NotifyGHLSyncFail != nil {
		syncFail = *req.NotifyGHLSyncFail
	}

	profile, err := s.profiles.UpdateNotifications(ctx, ownerID, newContact, syncFail)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
