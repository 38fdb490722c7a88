package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/digital-card/api/internal/entity"
)

// SyncLogsRepository appends and reads CRM sync audit records.
type SyncLogsRepository interface {
	Create(ctx context.Context, log *entity.SyncLog) error
	ListByContact(ctx context.Context, contactID uuid.UUID) ([]entity.SyncLog, error)
}

// PGXSyncLogsRepository implements SyncLogsRepository using pgx.
type PGXSyncLogsRepository struct {
	pool pgxPool
}

// NewPGXSyncLogsRepository wires a pgx backed repository.
func NewPGXSyncLogsRepository(pool *pgxpool.Pool) *PGXSyncLogsRepository {
	return &PGXSyncLogsRepository{pool: pool}
}

// Create inserts a log row and fills in its generated id and timestamp.
func (r *PGXSyncLogsRepository) Create(ctx context.Context, log *entity.SyncLog) error {
	if log == nil {
		return fmt.Errorf("sync log payload is nil")
	}

	err := r.pool.QueryRow(ctx, `
        INSERT INTO sync_logs (contact_id, sync_type, status, request_payload, response_payload, error_message)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `, log.ContactID, log.SyncType, log.Status, nullableJSON(log.RequestPayload), nullableJSON(log.ResponsePayload), log.ErrorMessage,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// ListByContact returns a contact's sync history, newest first.
func (r *PGXSyncLogsRepository) ListByContact(ctx context.Context, contactID uuid.UUID) ([]entity.SyncLog, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, contact_id, sync_type, status, request_payload, response_payload, error_message, created_at
        FROM sync_logs
        WHERE contact_id = $1
        ORDER BY created_at DESC
    `, contactID)
	if err != nil {
		return nil, fmt.Errorf("list sync logs: %w", err)
	}
	defer rows.Close()

	logs := make([]entity.SyncLog, 0)
	for rows.Next() {
		var (
			entry    entity.SyncLog
			request  []byte
			response []byte
		)
		if err := rows.Scan(&entry.ID, &entry.ContactID, &entry.SyncType, &entry.Status, &request, &response, &entry.ErrorMessage, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync log row: %w", err)
		}
		entry.RequestPayload = request
		entry.ResponsePayload = response
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync logs: %w", err)
	}
	return logs, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
