package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/ghl"
	"github.com/octobees/digital-card/api/internal/repository"
)

// memoryContacts is an in-memory ContactsRepository that mirrors the SQL semantics.
type memoryContacts struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*entity.Contact
	createErr error
	writes    int
}

func newMemoryContacts(contacts ...entity.Contact) *memoryContacts {
	m := &memoryContacts{rows: make(map[uuid.UUID]*entity.Contact)}
	for i := range contacts {
		c := contacts[i]
		m.rows[c.ID] = &c
	}
	return m
}

func (m *memoryContacts) get(id uuid.UUID) entity.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rows[id]
}

func (m *memoryContacts) Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *contact
	c.ID = uuid.New()
	c.GHLSyncStatus = entity.SyncStatusPending
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.rows[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memoryContacts) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	out := *c
	return &out, nil
}

func (m *memoryContacts) ListByProfile(ctx context.Context, profileID uuid.UUID, status entity.SyncStatus) ([]entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Contact, 0)
	for _, c := range m.rows {
		if c.ProfileID == profileID && (status == "" || c.GHLSyncStatus == status) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memoryContacts) IncrementSyncAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return 0, repository.ErrContactNotFound
	}
	m.writes++
	c.GHLSyncAttempts++
	return c.GHLSyncAttempts, nil
}

func (m *memoryContacts) MarkSynced(ctx context.Context, id uuid.UUID, ghlContactID string, syncedAt time.Time) error {
	return m.update(id, func(c *entity.Contact) {
		c.GHLSyncStatus = entity.SyncStatusSynced
		c.GHLContactID = &ghlContactID
		c.GHLSyncedAt = &syncedAt
		c.GHLSyncError = nil
	})
}

func (m *memoryContacts) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	return m.update(id, func(c *entity.Contact) {
		c.GHLSyncStatus = entity.SyncStatusFailed
		c.GHLSyncError = &message
	})
}

func (m *memoryContacts) MarkPending(ctx context.Context, id uuid.UUID, note string) error {
	return m.update(id, func(c *entity.Contact) {
		c.GHLSyncStatus = entity.SyncStatusPending
		c.GHLSyncError = &note
	})
}

func (m *memoryContacts) update(id uuid.UUID, fn func(c *entity.Contact)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return repository.ErrContactNotFound
	}
	m.writes++
	fn(c)
	return nil
}

type mockProfilesRepository struct {
	findByID       func(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	findByUsername func(ctx context.Context, username string) (*entity.Profile, error)
	usernameTaken  func(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	save           func(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	upsertGHL      func(ctx context.Context, seed entity.Profile, settings repository.GHLSettings) (*entity.Profile, error)
	notifications  func(ctx context.Context, id uuid.UUID, newContact, syncFail bool) (*entity.Profile, error)
}

func (m *mockProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfilesRepository) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	if m.findByUsername != nil {
		return m.findByUsername(ctx, username)
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfilesRepository) UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	if m.usernameTaken != nil {
		return m.usernameTaken(ctx, username, excludeID)
	}
	return false, nil
}

func (m *mockProfilesRepository) Save(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	if m.save != nil {
		return m.save(ctx, profile)
	}
	return nil, errors.New("save not implemented")
}

func (m *mockProfilesRepository) UpsertGHLSettings(ctx context.Context, seed entity.Profile, settings repository.GHLSettings) (*entity.Profile, error) {
	if m.upsertGHL != nil {
		return m.upsertGHL(ctx, seed, settings)
	}
	return nil, errors.New("upsert ghl not implemented")
}

func (m *mockProfilesRepository) UpdateNotifications(ctx context.Context, id uuid.UUID, newContact, syncFail bool) (*entity.Profile, error) {
	if m.notifications != nil {
		return m.notifications(ctx, id, newContact, syncFail)
	}
	return nil, errors.New("notifications not implemented")
}

type memorySyncLogs struct {
	mu        sync.Mutex
	entries   []entity.SyncLog
	createErr error
}

func (m *memorySyncLogs) Create(ctx context.Context, log *entity.SyncLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	m.entries = append(m.entries, *log)
	return nil
}

func (m *memorySyncLogs) ListByContact(ctx context.Context, contactID uuid.UUID) ([]entity.SyncLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.SyncLog, 0)
	for _, e := range m.entries {
		if e.ContactID == contactID {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockCRMClient replays upsert results in order and counts calls.
type mockCRMClient struct {
	mu         sync.Mutex
	results    []ghl.UpsertResult
	calls      int
	connection ghl.ConnectionResult
	apiKey     string
	locationID string
}

func (m *mockCRMClient) UpsertContact(ctx context.Context, contact entity.Contact) ghl.UpsertResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.results) == 0 {
		return ghl.UpsertResult{Error: "no result configured"}
	}
	res := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return res
}

func (m *mockCRMClient) TestConnection(ctx context.Context) ghl.ConnectionResult {
	return m.connection
}

func (m *mockCRMClient) factory() CRMClientFactory {
	return func(apiKey, locationID string) CRMClient {
		m.apiKey, m.locationID = apiKey, locationID
		return m
	}
}

type stubSyncer struct {
	result *SyncResult
	err    error
	calls  []uuid.UUID
}

func (s *stubSyncer) Sync(ctx context.Context, contactID uuid.UUID) (*SyncResult, error) {
	s.calls = append(s.calls, contactID)
	return s.result, s.err
}

func strPtr(s string) *string { return &s }

func connectedProfile(id uuid.UUID) *entity.Profile {
	return &entity.Profile{
		ID:            id,
		Email:         "owner@example.com",
		FullName:      "Owner",
		GHLAPIKey:     strPtr("pit-key"),
		GHLLocationID: strPtr("loc-1"),
		GHLConnected:  true,
		GHLAutoSync:   true,
	}
}

func profilesReturning(profile *entity.Profile) *mockProfilesRepository {
	return &mockProfilesRepository{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
			if profile == nil || id != profile.ID {
				return nil, repository.ErrProfileNotFound
			}
			clone := *profile
			return &clone, nil
		},
	}
}
