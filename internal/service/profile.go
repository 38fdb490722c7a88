package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/digital-card/api/internal/dto"
	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/repository"
)

// ErrUsernameTaken is returned when another profile already owns the username.
var ErrUsernameTaken = errors.New("username is already taken")

// Owner identifies the authenticated card owner.
type Owner struct {
	ID    uuid.UUID
	Email string
}

// seedName is the display name given to a profile created from a settings page.
func (o Owner) seedName() string {
	if local, _, ok := strings.Cut(o.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

// ProfileService manages the owner's card and settings.
type ProfileService struct {
	profiles  repository.ProfilesRepository
	newClient CRMClientFactory
}

// NewProfileService wires the profile service.
func NewProfileService(profiles repository.ProfilesRepository, newClient CRMClientFactory) *ProfileService {
	return &ProfileService{profiles: profiles, newClient: newClient}
}

// Get returns the owner's profile.
func (s *ProfileService) Get(ctx context.Context, ownerID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Update replaces the public card fields, creating the profile on first save.
func (s *ProfileService) Update(ctx context.Context, owner Owner, req dto.UpdateProfileRequest) (*entity.Profile, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	profile := &entity.Profile{ID: owner.ID, Email: owner.Email}
	if existing, err := s.profiles.FindByID(ctx, owner.ID); err == nil {
		profile.Email = existing.Email
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if raw := optional(req.Username); raw != nil {
		username, err := validateUsername(*raw)
		if err != nil {
			return nil, err
		}
		taken, err := s.profiles.UsernameTaken(ctx, username, owner.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		profile.Username = &username
	}

	profile.FullName = req.FullName
	profile.PhotoURL = optional(req.PhotoURL)
	profile.JobTitle = optional(req.JobTitle)
	profile.Company = optional(req.Company)
	profile.Location = optional(req.Location)
	profile.Bio = optional(req.Bio)
	profile.Phone = optional(req.Phone)
	profile.EmailPublic = optional(req.EmailPublic)
	if profile.EmailPublic != nil {
		email, err := normalizeEmail(*profile.EmailPublic)
		if err != nil {
			return nil, invalid("email_public must be a valid email address")
		}
		profile.EmailPublic = &email
	}

	links := []struct {
		field    string
		platform string
		raw      *string
		dest     **string
	}{
		{"website", "", req.Website, &profile.Website},
		{"linkedin_url", "linkedin", req.LinkedInURL, &profile.LinkedInURL},
		{"instagram_url", "instagram", req.InstagramURL, &profile.InstagramURL},
		{"facebook_url", "facebook", req.FacebookURL, &profile.FacebookURL},
		{"youtube_channel_url", "youtube", req.YouTubeURL, &profile.YouTubeURL},
		{"calendar_url", "", req.CalendarURL, &profile.CalendarURL},
	}
	for _, l := range links {
		raw := optional(l.raw)
		if raw == nil {
			continue
		}
		var (
			link string
			err  error
		)
		if l.platform == "" {
			link, err = normalizeLink(l.field, *raw)
		} else {
			link, err = normalizeSocialLink(l.field, l.platform, *raw)
		}
		if err != nil {
			return nil, err
		}
		*l.dest = &link
	}

	resources, err := buildResources(req.Resources)
	if err != nil {
		return nil, err
	}
	profile.Resources = resources

	saved, err := s.profiles.Save(ctx, profile)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrTooManyResources):
			return nil, invalid("resources must be at most %d", entity.MaxResources)
		}
		return nil, err
	}
	return saved, nil
}

// buildResources trims each slot and drops the fully empty ones, keeping order.
func buildResources(input []dto.ResourceLink) ([]entity.ResourceLink, error) {
	if len(input) > entity.MaxResources {
		return nil, invalid("resources must be at most %d", entity.MaxResources)
	}
	out := make([]entity.ResourceLink, 0, len(input))
	for i, r := range input {
		title := strings.TrimSpace(r.Title)
		link, err := normalizeLink(fmt.Sprintf("resources[%d].url", i), r.URL)
		if err != nil {
			return nil, err
		}
		if title == "" && link == "" {
			continue
		}
		out = append(out, entity.ResourceLink{Title: title, URL: link})
	}
	return out, nil
}
