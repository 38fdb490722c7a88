package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/digital-card/api/internal/entity"
)

// ErrContactNotFound is returned when no contact matches the lookup criteria.
var ErrContactNotFound = errors.New("contact not found")

// ContactsRepository describes persistence operations for visitor contacts.
type ContactsRepository interface {
	Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, status entity.SyncStatus) ([]entity.Contact, error)
	IncrementSyncAttempts(ctx context.Context, id uuid.UUID) (int, error)
	MarkSynced(ctx context.Context, id uuid.UUID, ghlContactID string, syncedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	MarkPending(ctx context.Context, id uuid.UUID, note string) error
}

const contactColumns = `id, profile_id, full_name, email, phone, company, interest_type, message, source,
    ip_address, user_agent, ghl_contact_id, ghl_synced_at, ghl_sync_status, ghl_sync_attempts, ghl_sync_error,
    created_at, updated_at`

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

// Create stores a new submission in the pending state.
func (r *PGXContactsRepository) Create(ctx context.Context, contact *entity.Contact) (*entity.Contact, error) {
	if contact == nil {
		return nil, fmt.Errorf("contact payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO contacts (profile_id, full_name, email, phone, company, interest_type, message, source,
            ip_address, user_agent, ghl_sync_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
        RETURNING `+contactColumns,
		contact.ProfileID, contact.FullName, contact.Email, contact.Phone, contact.Company, contact.InterestType,
		contact.Message, contact.Source, contact.IPAddress, contact.UserAgent,
	)

	created, err := scanContact(row)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return created, nil
}

// FindByID retrieves a contact by identifier.
func (r *PGXContactsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}
	return contact, nil
}

// ListByProfile returns a profile's contacts, newest first. An empty status lists every contact.
func (r *PGXContactsRepository) ListByProfile(ctx context.Context, profileID uuid.UUID, status entity.SyncStatus) ([]entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE profile_id = $1`
	args := []any{profileID}
	if status != "" {
		query += ` AND ghl_sync_status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// IncrementSyncAttempts bumps the attempt counter in place and returns the new value.
func (r *PGXContactsRepository) IncrementSyncAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	var attempts int
	err := r.pool.QueryRow(ctx, `
        UPDATE contacts
        SET ghl_sync_attempts = ghl_sync_attempts + 1, updated_at = NOW()
        WHERE id = $1
        RETURNING ghl_sync_attempts
    `, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrContactNotFound
		}
		return 0, fmt.Errorf("increment sync attempts: %w", err)
	}
	return attempts, nil
}

// MarkSynced records a successful sync and clears any previous error.
func (r *PGXContactsRepository) MarkSynced(ctx context.Context, id uuid.UUID, ghlContactID string, syncedAt time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE contacts
        SET ghl_contact_id = $1, ghl_synced_at = $2, ghl_sync_status = 'synced', ghl_sync_error = NULL, updated_at = NOW()
        WHERE id = $3
    `, ghlContactID, syncedAt, id)
	if err != nil {
		return fmt.Errorf("mark contact synced: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// MarkFailed records a failed sync. The external id and sync time are left untouched.
func (r *PGXContactsRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE contacts
        SET ghl_sync_status = 'failed', ghl_sync_error = $1, updated_at = NOW()
        WHERE id = $2
    `, message, id)
	if err != nil {
		return fmt.Errorf("mark contact failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// MarkPending resets the status to pending with an explanatory note, e.g. when the CRM is not configured.
func (r *PGXContactsRepository) MarkPending(ctx context.Context, id uuid.UUID, note string) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE contacts
        SET ghl_sync_status = 'pending', ghl_sync_error = $1, updated_at = NOW()
        WHERE id = $2
    `, note, id)
	if err != nil {
		return fmt.Errorf("mark contact pending: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	var (
		c      entity.Contact
		status string
	)
	if err := row.Scan(
		&c.ID, &c.ProfileID, &c.FullName, &c.Email, &c.Phone, &c.Company, &c.InterestType, &c.Message, &c.Source,
		&c.IPAddress, &c.UserAgent, &c.GHLContactID, &c.GHLSyncedAt, &status, &c.GHLSyncAttempts, &c.GHLSyncError,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.GHLSyncStatus = entity.SyncStatus(status)
	return &c, nil
}
