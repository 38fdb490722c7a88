package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/octobees/digital-card/api/internal/entity"
	"github.com/octobees/digital-card/api/internal/logging"
	"github.com/octobees/digital-card/api/internal/metrics"
	"github.com/octobees/digital-card/api/internal/repository"
	"github.com/octobees/digital-card/api/internal/vcard"
)

// VCardDocument is a rendered card ready to be served.
type VCardDocument struct {
	Content  string
	Filename string
}

// VCardService renders public profiles as vCards.
type VCardService struct {
	profiles repository.ProfilesRepository
	photos   vcard.PhotoFetcher
}

// NewVCardService wires the renderer. A nil fetcher renders cards without photos.
func NewVCardService(profiles repository.ProfilesRepository, photos vcard.PhotoFetcher) *VCardService {
	return &VCardService{profiles: profiles, photos: photos}
}

// Render builds the downloadable vCard for username. The photo is embedded when it can be fetched.
func (s *VCardService) Render(ctx context.Context, username string) (*VCardDocument, error) {
	profile, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	photo := s.fetchPhoto(ctx, profile)
	content, err := vcard.Encode(vcard.FromProfile(profile, photo))
	if err != nil {
		return nil, err
	}
	metrics.RecordVCardRender(len(photo) > 0)

	return &VCardDocument{Content: content, Filename: vcard.Filename(profile.FullName)}, nil
}

// RenderCompact builds the photo-less payload used for QR codes.
func (s *VCardService) RenderCompact(ctx context.Context, username string) (string, error) {
	profile, err := s.lookup(ctx, username)
	if err != nil {
		return "", err
	}
	return vcard.EncodeCompact(vcard.FromProfile(profile, nil))
}

func (s *VCardService) lookup(ctx context.Context, username string) (*entity.Profile, error) {
	profile, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func (s *VCardService) fetchPhoto(ctx context.Context, profile *entity.Profile) []byte {
	if s.photos == nil || profile.PhotoURL == nil || *profile.PhotoURL == "" {
		return nil
	}
	photo, err := s.photos.Fetch(ctx, *profile.PhotoURL)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("profile_id", profile.ID.String()).Msg("skipping vcard photo")
		return nil
	}
	return photo
}
