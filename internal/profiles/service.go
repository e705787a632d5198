package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrUnsupportedImage indicates an uploaded branding image is neither PNG nor
// JPEG.
var ErrUnsupportedImage = errors.New("unsupported image format")

// RepositoryPort is the persistence surface the service needs.
type RepositoryPort interface {
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	UpdateProfile(ctx context.Context, p Profile) error
	GetSettings(ctx context.Context, profileID int64) (*Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// AssetStore persists uploaded branding images.
type AssetStore interface {
	Store(ctx context.Context, mime string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service exposes profile and billing settings operations, including the
// branding image uploads (logo and letterhead template).
type Service struct {
	repo   RepositoryPort
	assets AssetStore
	logger *slog.Logger
}

// NewService constructs a profile service.
func NewService(repo RepositoryPort, assets AssetStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, assets: assets, logger: logger}
}

// GetProfile loads one business profile.
func (s *Service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

// UpdateProfile rewrites the profile's address, contact and bank data while
// keeping the stored branding keys.
func (s *Service) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*Profile, error) {
	current, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p := req.apply(*current)
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, id)
}

// GetSettings loads the billing settings of a profile.
func (s *Service) GetSettings(ctx context.Context, profileID int64) (*Settings, error) {
	return s.repo.GetSettings(ctx, profileID)
}

// SaveSettings upserts the billing settings of a profile.
func (s *Service) SaveSettings(ctx context.Context, profileID int64, req SettingsRequest) (*Settings, error) {
	settings := req.settings(profileID)
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return s.repo.GetSettings(ctx, profileID)
}

// BrandingSlot selects which branding image of a profile an upload targets.
type BrandingSlot string

// Branding slots.
const (
	SlotLogo       BrandingSlot = "logo"
	SlotLetterhead BrandingSlot = "letterhead"
)

// UploadBranding stores a logo or letterhead image and points the profile at
// it. The previous image, if any, is removed from the asset store.
func (s *Service) UploadBranding(ctx context.Context, profileID int64, slot BrandingSlot, data []byte) (*Profile, error) {
	mime := http.DetectContentType(data)
	if mime != "image/png" && mime != "image/jpeg" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}

	p, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	key, err := s.assets.Store(ctx, mime, data)
	if err != nil {
		return nil, fmt.Errorf("store branding image: %w", err)
	}

	var previous *string
	switch slot {
	case SlotLetterhead:
		previous = p.LetterheadKey
		p.LetterheadKey = &key
	default:
		previous = p.LogoKey
		p.LogoKey = &key
	}
	if err := s.repo.UpdateProfile(ctx, *p); err != nil {
		return nil, err
	}
	if previous != nil {
		if err := s.assets.Delete(ctx, *previous); err != nil {
			s.logger.Warn("delete replaced branding image", slog.String("key", *previous), slog.Any("error", err))
		}
	}
	return p, nil
}

// RemoveBranding detaches a branding image from the profile and deletes it.
func (s *Service) RemoveBranding(ctx context.Context, profileID int64, slot BrandingSlot) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	var previous *string
	switch slot {
	case SlotLetterhead:
		previous, p.LetterheadKey = p.LetterheadKey, nil
	default:
		previous, p.LogoKey = p.LogoKey, nil
	}
	if previous == nil {
		return p, nil
	}
	if err := s.repo.UpdateProfile(ctx, *p); err != nil {
		return nil, err
	}
	if err := s.assets.Delete(ctx, *previous); err != nil {
		s.logger.Warn("delete detached branding image", slog.String("key", *previous), slog.Any("error", err))
	}
	return p, nil
}
