package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/digital-card/api/internal/entity"
)

var (
	// ErrProfileNotFound is returned when no profile matches the lookup criteria.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUsernameTaken is returned when another profile already owns the username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrTooManyResources is returned when the resources list exceeds entity.MaxResources.
	ErrTooManyResources = errors.New("too many resources")
)

// ProfilesRepository declares persistence operations for card owner profiles.
type ProfilesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByUsername(ctx context.Context, username string) (*entity.Profile, error)
	UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	UpsertGHLSettings(ctx context.Context, seed entity.Profile, settings GHLSettings) (*entity.Profile, error)
	UpdateNotifications(ctx context.Context, id uuid.UUID, newContact, syncFail bool) (*entity.Profile, error)
}

// GHLSettings is the CRM configuration stored on a profile.
type GHLSettings struct {
	APIKey     *string
	LocationID *string
	AutoSync   bool
	Connected  bool
}

const profileColumns = `id, email, username, full_name, photo_url, job_title, company, location, bio, phone,
    email_public, website, linkedin_url, instagram_url, facebook_url, youtube_channel_url, calendar_url,
    resources, ghl_api_key, ghl_location_id, ghl_connected, ghl_auto_sync, notify_new_contact,
    notify_ghl_sync_fail, created_at, updated_at`

// PGXProfilesRepository implements ProfilesRepository with pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository instantiates a profiles repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

// FindByID fetches a profile by its owner id.
func (r *PGXProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile by id: %w", err)
	}
	return profile, nil
}

// FindByUsername fetches a profile by its public username.
func (r *PGXProfilesRepository) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = $1`, strings.ToLower(username))
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile by username: %w", err)
	}
	return profile, nil
}

// UsernameTaken reports whether a profile other than excludeID owns the username.
func (r *PGXProfilesRepository) UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1 AND id <> $2)`,
		strings.ToLower(username), excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return taken, nil
}

// Save inserts the profile or updates its public fields, creating it on first save.
func (r *PGXProfilesRepository) Save(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile payload is nil")
	}
	if len(profile.Resources) > entity.MaxResources {
		return nil, ErrTooManyResources
	}

	resources := profile.Resources
	if resources == nil {
		resources = []entity.ResourceLink{}
	}
	encoded, err := json.Marshal(resources)
	if err != nil {
		return nil, fmt.Errorf("encode resources: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO profiles (id, email, username, full_name, photo_url, job_title, company, location, bio, phone,
            email_public, website, linkedin_url, instagram_url, facebook_url, youtube_channel_url, calendar_url, resources)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        ON CONFLICT (id) DO UPDATE SET
            email = EXCLUDED.email,
            username = EXCLUDED.username,
            full_name = EXCLUDED.full_name,
            photo_url = EXCLUDED.photo_url,
            job_title = EXCLUDED.job_title,
            company = EXCLUDED.company,
            location = EXCLUDED.location,
            bio = EXCLUDED.bio,
            phone = EXCLUDED.phone,
            email_public = EXCLUDED.email_public,
            website = EXCLUDED.website,
            linkedin_url = EXCLUDED.linkedin_url,
            instagram_url = EXCLUDED.instagram_url,
            facebook_url = EXCLUDED.facebook_url,
            youtube_channel_url = EXCLUDED.youtube_channel_url,
            calendar_url = EXCLUDED.calendar_url,
            resources = EXCLUDED.resources,
            updated_at = NOW()
        RETURNING `+profileColumns,
		profile.ID, profile.Email, profile.Username, profile.FullName, profile.PhotoURL, profile.JobTitle,
		profile.Company, profile.Location, profile.Bio, profile.Phone, profile.EmailPublic, profile.Website,
		profile.LinkedInURL, profile.InstagramURL, profile.FacebookURL, profile.YouTubeURL, profile.CalendarURL,
		encoded,
	)

	saved, err := scanProfile(row)
	if err != nil {
		switch code, constraint := pgErrorCode(err); {
		case code == pgUniqueViolation && strings.Contains(constraint, "username"):
			return nil, ErrUsernameTaken
		case code == pgCheckViolation && strings.Contains(constraint, "resources"):
			return nil, ErrTooManyResources
		}
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}

// UpsertGHLSettings stores the CRM credentials and flags. A missing profile is created from seed,
// which only needs ID, Email and FullName.
func (r *PGXProfilesRepository) UpsertGHLSettings(ctx context.Context, seed entity.Profile, settings GHLSettings) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO profiles (id, email, full_name, ghl_api_key, ghl_location_id, ghl_auto_sync, ghl_connected)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE SET
            ghl_api_key = EXCLUDED.ghl_api_key,
            ghl_location_id = EXCLUDED.ghl_location_id,
            ghl_auto_sync = EXCLUDED.ghl_auto_sync,
            ghl_connected = EXCLUDED.ghl_connected,
            updated_at = NOW()
        RETURNING `+profileColumns,
		seed.ID, seed.Email, seed.FullName, settings.APIKey, settings.LocationID, settings.AutoSync, settings.Connected,
	)
	profile, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("save ghl settings: %w", err)
	}
	return profile, nil
}

// UpdateNotifications stores the owner's notification preferences.
func (r *PGXProfilesRepository) UpdateNotifications(ctx context.Context, id uuid.UUID, newContact, syncFail bool) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE profiles
        SET notify_new_contact = $1, notify_ghl_sync_fail = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING `+profileColumns,
		newContact, syncFail, id,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update notifications: %w", err)
	}
	return profile, nil
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	var (
		p         entity.Profile
		resources []byte
	)
	if err := row.Scan(
		&p.ID, &p.Email, &p.Username, &p.FullName, &p.PhotoURL, &p.JobTitle, &p.Company, &p.Location, &p.Bio,
		&p.Phone, &p.EmailPublic, &p.Website, &p.LinkedInURL, &p.InstagramURL, &p.FacebookURL, &p.YouTubeURL,
		&p.CalendarURL, &resources, &p.GHLAPIKey, &p.GHLLocationID, &p.GHLConnected, &p.GHLAutoSync,
		&p.NotifyNewContact, &p.NotifyGHLSyncFail, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Resources = []entity.ResourceLink{}
	if len(resources) > 0 {
		if err := json.Unmarshal(resources, &p.Resources); err != nil {
			return nil, fmt.Errorf("decode resources: %w", err)
		}
	}
	return &p, nil
}
