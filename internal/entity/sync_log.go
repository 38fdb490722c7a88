package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sync log types and statuses.
const (
	SyncTypeContactCreate = "contact_create"
	SyncTypeContactUpdate = "contact_update"

	SyncLogSuccess = "success"
	SyncLogFailed  = "failed"
)

// SyncLog is an append-only audit record of one CRM sync attempt.
type SyncLog struct {
	ID              uuid.UUID       `json:"id"`
	ContactID       uuid.UUID       `json:"contact_id"`
	SyncType        string          `json:"sync_type"`
	Status          string          `json:"status"`
	RequestPayload  json.RawMessage `json:"request_payload,omitempty"`
	ResponsePayload json.RawMessage `json:"response_payload,omitempty"`
	ErrorMessage    *string         `json:"error_message,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
