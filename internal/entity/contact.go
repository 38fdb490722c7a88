package entity

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the CRM synchronization label stored on a contact.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusPending, SyncStatusSynced, SyncStatusFailed:
		return true
	}
	return false
}

// Interest categories a visitor can pick on the exchange form.
const (
	InterestNetworking           = "networking"
	InterestContratarServicios   = "contratar_servicios"
	InterestPodcast              = "podcast"
	InterestColaboracion         = "colaboracion"
	InterestOportunidadesNegocio = "oportunidades_negocio"
	InterestOfrecerServicios     = "ofrecer_servicios"
)

// Contact sources.
const (
	SourceQRScan     = "qr_scan"
	SourceNFCTap     = "nfc_tap"
	SourceDirectLink = "direct_link"
	SourceShare      = "share"
)

// Contact is a visitor submission captured from a public card.
type Contact struct {
	ID              uuid.UUID  `json:"id"`
	ProfileID       uuid.UUID  `json:"profile_id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Company         *string    `json:"company,omitempty"`
	InterestType    string     `json:"interest_type"`
	Message         *string    `json:"message,omitempty"`
	Source          string     `json:"source"`
	IPAddress       *string    `json:"ip_address,omitempty"`
	UserAgent       *string    `json:"user_agent,omitempty"`
	GHLContactID    *string    `json:"ghl_contact_id,omitempty"`
	GHLSyncedAt     *time.Time `json:"ghl_synced_at,omitempty"`
	GHLSyncStatus   SyncStatus `json:"ghl_sync_status"`
	GHLSyncAttempts int        `json:"ghl_sync_attempts"`
	GHLSyncError    *string    `json:"ghl_sync_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
