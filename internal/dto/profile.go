package dto

// ResourceLink is one labeled link in a profile update.
type ResourceLink struct {
	Title string `json:"title" validate:"max=100"`
	URL   string `json:"url" validate:"max=500"`
}

// UpdateProfileRequest replaces the public card fields. Empty strings clear a field.
type UpdateProfileRequest struct {
	Username     *string        `json:"username,omitempty" validate:"omitempty,max=50"`
	FullName     string         `json:"full_name" validate:"required,max=200"`
	PhotoURL     *string        `json:"photo_url,omitempty" validate:"omitempty,max=500"`
	JobTitle     *string        `json:"job_title,omitempty" validate:"omitempty,max=200"`
	Company      *string        `json:"company,omitempty" validate:"omitempty,max=200"`
	Location     *string        `json:"location,omitempty" validate:"omitempty,max=200"`
	Bio          *string        `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Phone        *string        `json:"phone,omitempty" validate:"omitempty,max=40"`
	EmailPublic  *string        `json:"email_public,omitempty" validate:"omitempty,max=254"`
	Website      *string        `json:"website,omitempty" validate:"omitempty,max=500"`
	LinkedInURL  *string        `json:"linkedin_url,omitempty" validate:"omitempty,max=500"`
	InstagramURL *string        `json:"instagram_url,omitempty" validate:"omitempty,max=500"`
	FacebookURL  *string        `json:"facebook_url,omitempty" validate:"omitempty,max=500"`
	YouTubeURL   *string        `json:"youtube_channel_url,omitempty" validate:"omitempty,max=500"`
	CalendarURL  *string        `json:"calendar_url,omitempty" validate:"omitempty,max=500"`
	Resources    []ResourceLink `json:"resources,omitempty" validate:"max=10,dive"`
}
