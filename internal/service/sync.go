package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/ghl"
	"github.com/octobees/digital-card/api/internal/logging"
	"github.com/octobees/digital-card/api/internal/metrics"
	"github.com/octobees/digital-card/api/internal/repository"
)

var (
	// ErrContactNotFound is returned when the contact to sync does not exist.
	ErrContactNotFound = errors.New("contact not found")
	// ErrProfileNotFound is returned when the owning profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
)

const (
	notConfiguredNote = "GHL not configured"
)

// SyncOutcome labels how a sync invocation ended.
type SyncOutcome string

const (
	SyncOutcomeSynced        SyncOutcome = "synced"
	SyncOutcomeFailed        SyncOutcome = "failed"
	SyncOutcomeNotConfigured SyncOutcome = "not_configured"
	SyncOutcomeDisabled      SyncOutcome = "disabled"
)

// SyncResult is the reportable outcome of one Sync call.
type SyncResult struct {
	Outcome      SyncOutcome `json:"outcome"`
	Success      bool        `json:"success"`
	GHLContactID string      `json:"ghl_contact_id,omitempty"`
	IsNew        bool        `json:"is_new,omitempty"`
	Attempts     int         `json:"attempts,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// CRMClient is the part of the GoHighLevel client the services rely on.
type CRMClient interface {
	UpsertContact(ctx context.Context, contact entity.Contact) ghl.UpsertResult
	TestConnection(ctx context.Context) ghl.ConnectionResult
}

// CRMClientFactory builds a client for one profile's credentials.
type CRMClientFactory func(apiKey, locationID string) CRMClient

// SyncService pushes contacts to the owner's CRM and records every attempt.
type SyncService struct {
	contacts  repository.ContactsRepository
	profiles  repository.ProfilesRepository
	logs      repository.SyncLogsRepository
	newClient CRMClientFactory
	now       func() time.Time
}

// SyncServiceOption configures optional dependencies.
type SyncServiceOption func(*SyncService)

// WithClock overrides the time source used for ghl_synced_at.
func WithClock(now func() time.Time) SyncServiceOption {
	return func(s *SyncService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSyncService wires the orchestrator.
func NewSyncService(
	contacts repository.ContactsRepository,
	profiles repository.ProfilesRepository,
	logs repository.SyncLogsRepository,
	newClient CRMClientFactory,
	opts ...SyncServiceOption,
) *SyncService {
	s := &SyncService{
		contacts:  contacts,
		profiles:  profiles,
		logs:      logs,
		newClient: newClient,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync performs at most one CRM upsert for the contact and persists the outcome.
// CRM failures are reported in the result; the error return is reserved for
// missing records and storage failures.
func (s *SyncService) Sync(ctx context.Context, contactID uuid.UUID) (*SyncResult, error) {
	log := logging.Ctx(ctx).With().Str("contact_id", contactID.String()).Logger()

	contact, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("load contact: %w", err)
	}
	profile, err := s.profiles.FindByID(ctx, contact.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if !profile.GHLConnected || !profile.HasGHLCredentials() {
		if err := s.contacts.MarkPending(ctx, contact.ID, notConfiguredNote); err != nil {
			return nil, fmt.Errorf("mark contact pending: %w", err)
		}
		log.Info().Msg("ghl sync skipped: not configured")
		return s.finish(&SyncResult{
			Outcome:  SyncOutcomeNotConfigured,
			Attempts: contact.GHLSyncAttempts,
			Error:    "GHL not configured for this profile",
		}), nil
	}

	if !profile.GHLAutoSync {
		log.Info().Msg("ghl sync skipped: auto-sync disabled")
		return s.finish(&SyncResult{
			Outcome:  SyncOutcomeDisabled,
			Attempts: contact.GHLSyncAttempts,
			Error:    "Auto-sync disabled",
		}), nil
	}

	attempts, err := s.contacts.IncrementSyncAttempts(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("increment sync attempts: %w", err)
	}

	client := s.newClient(*profile.GHLAPIKey, *profile.GHLLocationID)
	upsert := client.UpsertContact(ctx, *contact)

	logErr := s.logs.Create(ctx, buildSyncLog(contact, upsert))
	if logErr != nil {
		log.Error().Err(logErr).Msg("failed to write sync log")
	}

	result := &SyncResult{Attempts: attempts}
	if upsert.Success {
		if err := s.contacts.MarkSynced(ctx, contact.ID, upsert.ContactID, s.now().UTC()); err != nil {
			return nil, fmt.Errorf("mark contact synced: %w", err)
		}
		result.Outcome = SyncOutcomeSynced
		result.Success = true
		result.GHLContactID = upsert.ContactID
		result.IsNew = upsert.IsNew
		log.Info().Str("ghl_contact_id", upsert.ContactID).Bool("is_new", upsert.IsNew).Int("attempts", attempts).Msg("ghl sync succeeded")
	} else {
		if err := s.contacts.MarkFailed(ctx, contact.ID, upsert.Error); err != nil {
			return nil, fmt.Errorf("mark contact failed: %w", err)
		}
		result.Outcome = SyncOutcomeFailed
		result.Error = upsert.Error
		log.Warn().Str("error", upsert.Error).Int("attempts", attempts).Msg("ghl sync failed")
	}

	if logErr != nil {
		return s.finish(result), fmt.Errorf("write sync log: %w", logErr)
	}
	return s.finish(result), nil
}

func (s *SyncService) finish(result *SyncResult) *SyncResult {
	metrics.RecordSyncOutcome(string(result.Outcome))
	return result
}

func buildSyncLog(contact *entity.Contact, upsert ghl.UpsertResult) *entity.SyncLog {
	entry := &entity.SyncLog{
		ContactID: contact.ID,
		SyncType:  syncType(contact, upsert),
		Status:    entity.SyncLogFailed,
	}
	if upsert.Success {
		entry.Status = entity.SyncLogSuccess
	} else if upsert.Error != "" {
		msg := upsert.Error
		entry.ErrorMessage = &msg
	}

	// Marshalling these fixed shapes cannot fail.
	entry.RequestPayload, _ = json.Marshal(map[string]string{
		"contact_id": contact.ID.String(),
		"email":      contact.Email,
	})
	entry.ResponsePayload, _ = json.Marshal(upsert)
	return entry
}

// syncType trusts the CRM's create/update flag on success. A failed call carries
// no flag, so it is classified by whether the contact was ever linked.
func syncType(contact *entity.Contact, upsert ghl.UpsertResult) string {
	if upsert.Success {
		if upsert.IsNew {
			return entity.SyncTypeContactCreate
		}
		return entity.SyncTypeContactUpdate
	}
	if contact.GHLContactID != nil && *contact.GHLContactID != "" {
		return entity.SyncTypeContactUpdate
	}
	return entity.SyncTypeContactCreate
}
