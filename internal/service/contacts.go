package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/logging"
	"github.com/octobees/digital-card/api/internal/repository"
)

// ErrInvalidContactID is returned when a contact id is not a UUID.
var ErrInvalidContactID = errors.New("invalid contact id")

const syncUnavailableMessage = "sync could not be completed"

// ContactSyncer runs one CRM sync for a contact.
type ContactSyncer interface {
	Sync(ctx context.Context, contactID uuid.UUID) (*SyncResult, error)
}

// SubmissionMeta is request metadata captured alongside a submission.
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
}

// SubmitResult pairs the stored contact with its inline sync outcome.
type SubmitResult struct {
	Contact *entity.Contact
	Sync    *SyncResult
}

// ContactsService handles visitor submissions and owner-side contact operations.
type ContactsService struct {
	contacts      repository.ContactsRepository
	logs          repository.SyncLogsRepository
	syncer        ContactSyncer
	defaultRegion string
}

// NewContactsService creates a new instance of ContactsService.
func NewContactsService(contacts repository.ContactsRepository, logs repository.SyncLogsRepository, syncer ContactSyncer, defaultRegion string) *ContactsService {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactsService{contacts: contacts, logs: logs, syncer: syncer, defaultRegion: region}
}

// Submit validates and stores a submission, then syncs it to the owner's CRM before returning.
// A failed sync is reported in the result and never fails the submission.
func (s *ContactsService) Submit(ctx context.Context, req dto.CreateContactRequest, meta SubmissionMeta) (*SubmitResult, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return nil, invalid("profile_id must be a valid UUID")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	var phone *string
	if raw := optional(req.Phone); raw != nil {
		normalized := normalizePhone(*raw, s.defaultRegion)
		if normalized == "" {
			return nil, invalid("phone must be a valid phone number")
		}
		phone = &normalized
	}

	source := req.Source
	if source == "" {
		source = entity.SourceDirectLink
	}

	contact, err := s.contacts.Create(ctx, &entity.Contact{
		ProfileID:    profileID,
		FullName:     req.FullName,
		Email:        email,
		Phone:        phone,
		Company:      optional(req.Company),
		InterestType: req.InterestType,
		Message:      optional(req.Message),
		Source:       source,
		IPAddress:    optional(&meta.IPAddress),
		UserAgent:    optional(&meta.UserAgent),
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("create contact: %w", err)
	}

	log := logging.Ctx(ctx)
	log.Info().Str("contact_id", contact.ID.String()).Str("profile_id", profileID.String()).Str("source", source).Msg("contact submitted")

	result, err := s.syncer.Sync(ctx, contact.ID)
	if err != nil {
		log.Error().Err(err).Str("contact_id", contact.ID.String()).Msg("inline ghl sync failed")
		if result == nil {
			result = &SyncResult{Outcome: SyncOutcomeFailed, Error: syncUnavailableMessage}
		}
	}

	return &SubmitResult{Contact: contact, Sync: result}, nil
}

// List returns the owner's contacts, optionally filtered by sync status.
func (s *ContactsService) List(ctx context.Context, ownerID uuid.UUID, status string) ([]entity.Contact, error) {
	filter := entity.SyncStatus(strings.ToLower(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		return nil, invalid("status must be one of: pending synced failed")
	}
	return s.contacts.ListByProfile(ctx, ownerID, filter)
}

// SyncOwned re-runs the CRM sync for a contact that belongs to the owner.
func (s *ContactsService) SyncOwned(ctx context.Context, ownerID uuid.UUID, rawContactID string) (*SyncResult, error) {
	contact, err := s.owned(ctx, ownerID, rawContactID)
	if err != nil {
		return nil, err
	}

	result, err := s.syncer.Sync(ctx, contact.ID)
	if err != nil && result != nil {
		// The contact status is already persisted; only the audit write failed.
		logging.Ctx(ctx).Error().Err(err).Str("contact_id", contact.ID.String()).Msg("manual ghl sync finished with errors")
		return result, nil
	}
	return result, err
}

// SyncLogs returns the sync history of a contact that belongs to the owner.
func (s *ContactsService) SyncLogs(ctx context.Context, ownerID uuid.UUID, rawContactID string) ([]entity.SyncLog, error) {
	contact, err := s.owned(ctx, ownerID, rawContactID)
	if err != nil {
		return nil, err
	}
	return s.logs.ListByContact(ctx, contact.ID)
}

// owned hides contacts of other profiles behind ErrContactNotFound.
func (s *ContactsService) owned(ctx context.Context, ownerID uuid.UUID, rawContactID string) (*entity.Contact, error) {
	contactID, err := uuid.Parse(strings.TrimSpace(rawContactID))
	if err != nil {
		return nil, ErrInvalidContactID
	}
	contact, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("load contact: %w", err)
	}
	if contact.ProfileID != ownerID {
		return nil, ErrContactNotFound
	}
	return contact, nil
}
