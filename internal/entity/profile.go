package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxResources caps the number of labeled resource links on a profile.
const MaxResources = 10

// ResourceLink is one labeled link shown on the card and exported to vCards.
type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Profile is the card owner's public identity plus CRM settings.
type Profile struct {
	ID                uuid.UUID      `json:"id"`
	Email             string         `json:"email"`
	Username          *string        `json:"username,omitempty"`
	FullName          string         `json:"full_name"`
	PhotoURL          *string        `json:"photo_url,omitempty"`
	JobTitle          *string        `json:"job_title,omitempty"`
	Company           *string        `json:"company,omitempty"`
	Location          *string        `json:"location,omitempty"`
	Bio               *string        `json:"bio,omitempty"`
	Phone             *string        `json:"phone,omitempty"`
	EmailPublic       *string        `json:"email_public,omitempty"`
	Website           *string        `json:"website,omitempty"`
	LinkedInURL       *string        `json:"linkedin_url,omitempty"`
	InstagramURL      *string        `json:"instagram_url,omitempty"`
	FacebookURL       *string        `json:"facebook_url,omitempty"`
	YouTubeURL        *string        `json:"youtube_channel_url,omitempty"`
	CalendarURL       *string        `json:"calendar_url,omitempty"`
	Resources         []ResourceLink `json:"resources"`
	GHLAPIKey         *string        `json:"-"`
	GHLLocationID     *string        `json:"ghl_location_id,omitempty"`
	GHLConnected      bool           `json:"ghl_connected"`
	GHLAutoSync       bool           `json:"ghl_auto_sync"`
	NotifyNewContact  bool           `json:"notify_new_contact"`
	NotifyGHLSyncFail bool           `json:"notify_ghl_sync_fail"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// HasGHLCredentials reports whether both the API key and location id are set.
func (p *Profile) HasGHLCredentials() bool {
	return p.GHLAPIKey != nil && *p.GHLAPIKey != "" && p.GHLLocationID != nil && *p.GHLLocationID != ""
}
