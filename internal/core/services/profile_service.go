package services

import (
	"context"
	"errors"
	"io"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/core/domain"
	"guilde-api/internal/pkg/storage"

	"gorm.io/gorm"
)

// ProfileService handles member self-service: reading and editing one's
// own profile. Status and admin flag are never touched here.
type ProfileService struct {
	profileRepo    repositories.ProfileRepository
	cotisationRepo repositories.CotisationRepository
	logoStore      storage.LogoStore
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repositories.ProfileRepository,
	cotisationRepo repositories.CotisationRepository,
	logoStore storage.LogoStore,
) *ProfileService {
	return &ProfileService{
		profileRepo:    profileRepo,
		cotisationRepo: cotisationRepo,
		logoStore:      logoStore,
	}
}

// UpdateProfileInput is the self-editable subset of the profile
type UpdateProfileInput struct {
	CompanyName  string `json:"company_name"`
	ManagerName  string `json:"manager_name"`
	Siret        string `json:"siret"`
	MemberType   string `json:"member_type"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	WebsiteURL   string `json:"website_url"`
	InstagramURL string `json:"instagram_url"`
	TiktokURL    string `json:"tiktok_url"`
}

// GetProfile loads a profile by identity
func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*models.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile.ToResponse(), nil
}

// UpdateProfile overwrites the self-editable fields of the caller's
// profile, normalizing empty strings to NULL
func (s *ProfileService) UpdateProfile(ctx context.Context, profileID string, input *UpdateProfileInput) (*models.ProfileResponse, error) {
	if !domain.IsValidMemberType(input.MemberType) {
		return nil, domain.ErrInvalidMemberType
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	profile.CompanyName = nullable(input.CompanyName)
	profile.ManagerName = nullable(input.ManagerName)
	profile.Siret = nullable(input.Siret)
	profile.MemberType = nullable(input.MemberType)
	profile.Phone = nullable(input.Phone)
	profile.Address = nullable(input.Address)
	profile.WebsiteURL = nullable(input.WebsiteURL)
	profile.InstagramURL = nullable(input.InstagramURL)
	profile.TiktokURL = nullable(input.TiktokURL)
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile.ToResponse(), nil
}

// UploadLogo stores a new logo for the caller and updates the profile
func (s *ProfileService) UploadLogo(ctx context.Context, profileID, contentType string, size int64, r io.Reader) (string, error) {
	if err := storage.ValidateLogo(contentType, size); err != nil {
		return "", err
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrProfileNotFound
		}
		return "", err
	}

	url, err := s.logoStore.Upload(ctx, profileID, contentType, size, r)
	if err != nil {
		return "", err
	}

	profile.LogoURL = &url
	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return "", err
	}

	return url, nil
}

// ListMyCotisations returns the caller's dues history, newest year first.
// Members can view but never alter their dues records.
func (s *ProfileService) ListMyCotisations(ctx context.Context, profileID string) ([]*models.CotisationResponse, error) {
	cotisations, err := s.cotisationRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.CotisationResponse, len(cotisations))
	for i, ct := range cotisations {
		out[i] = ct.ToResponse()
	}
	return out, nil
}

// ListHall returns the directory of active members
func (s *ProfileService) ListHall(ctx context.Context) ([]*models.ProfileResponse, error) {
	profiles, err := s.profileRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ProfileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = p.ToResponse()
	}
	return out, nil
}
