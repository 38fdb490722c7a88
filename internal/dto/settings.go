package dto

// GHLSettingsRequest stores the CRM credentials. AutoSync defaults to true when omitted.
type GHLSettingsRequest struct {
	APIKey     string `json:"ghl_api_key" validate:"max=500"`
	LocationID string `json:"ghl_location_id" validate:"max=100"`
	AutoSync   *bool  `json:"ghl_auto_sync,omitempty"`
	Connected  bool   `json:"ghl_connected"`
}

// GHLTestRequest carries credentials to verify before saving.
type GHLTestRequest struct {
	APIKey     string `json:"ghl_api_key" validate:"required"`
	LocationID string `json:"ghl_location_id" validate:"required"`
}

// NotificationSettingsRequest updates the owner's alert preferences. Omitted flags default to true.
type NotificationSettingsRequest struct {
	NotifyNewContact  *bool `json:"notify_new_contact,omitempty"`
	NotifyGHLSyncFail *bool `json:"notify_ghl_sync_fail,omitempty"`
}
