package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/core/domain"
	"guilde-api/internal/pkg/storage"

	"gorm.io/gorm"
)

// Member service errors
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrCotisationNotWritten = errors.New("profile saved but cotisation update failed")
	ErrSelfDemotion         = errors.New("cannot remove your own admin access")
)

// MemberService handles the admin-side member editing flow: profile
// mutation plus the per-year cotisation upsert.
type MemberService struct {
	profileRepo    repositories.ProfileRepository
	cotisationRepo repositories.CotisationRepository
	logoStore      storage.LogoStore
}

// NewMemberService creates a new member service
func NewMemberService(
	profileRepo repositories.ProfileRepository,
	cotisationRepo repositories.CotisationRepository,
	logoStore storage.LogoStore,
) *MemberService {
	return &MemberService{
		profileRepo:    profileRepo,
		cotisationRepo: cotisationRepo,
		logoStore:      logoStore,
	}
}

// ListMembersInput represents member list input
type ListMembersInput struct {
	Status string
	Page   int
	Limit  int
}

// ListMembersOutput represents member list output
type ListMembersOutput struct {
	Members    []*models.ProfileResponse `json:"members"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int                       `json:"total_pages"`
}

// MemberDetail is the admin edit view: the profile, the dues record for
// the selected year (defaults when absent, no row created), and the
// selectable years.
type MemberDetail struct {
	Profile    *models.ProfileResponse    `json:"profile"`
	Cotisation *models.CotisationResponse `json:"cotisation"`
	Years      []int                      `json:"years"`
}

// CotisationInput represents the dues part of the admin submit
type CotisationInput struct {
	Year   int      `json:"year"`
	Status string   `json:"status"`
	Amount *float64 `json:"amount"`
}

// UpdateMemberInput represents the full edited field set of the admin
// form. Empty strings on optional fields are normalized to NULL.
type UpdateMemberInput struct {
	Email         string `json:"email"`
	CompanyName   string `json:"company_name"`
	ManagerName   string `json:"manager_name"`
	Siret         string `json:"siret"`
	MemberType    string `json:"member_type"`
	LogoURL       string `json:"logo_url"`
	Sponsor       string `json:"sponsor"`
	JoinReason    string `json:"join_reason"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	WebsiteURL    string `json:"website_url"`
	InstagramURL  string `json:"instagram_url"`
	TiktokURL     string `json:"tiktok_url"`
	Status        string `json:"status"`
	IsAdmin       bool   `json:"is_admin"`
	CharterSigned bool   `json:"charter_signed"`

	Cotisation *CotisationInput `json:"cotisation"`
}

// Validate rejects invalid enumerated values before any write occurs
func (in *UpdateMemberInput) Validate() error {
	if !domain.IsValidMemberType(in.MemberType) {
		return domain.ErrInvalidMemberType
	}
	if !domain.IsValidProfileStatus(in.Status) {
		return domain.ErrInvalidStatus
	}
	if in.Cotisation != nil {
		if !domain.IsValidCotisationStatus(in.Cotisation.Status) {
			return domain.ErrInvalidCotisationStatus
		}
		if in.Cotisation.Year < 2000 || in.Cotisation.Year > time.Now().Year()+1 {
			return domain.ErrInvalidYear
		}
	}
	return nil
}

// ListMembers lists member profiles with optional status filter
func (s *MemberService) ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	profiles, total, err := s.profileRepo.List(ctx, input.Status, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	members := make([]*models.ProfileResponse, len(profiles))
	for i, p := range profiles {
		members[i] = p.ToResponse()
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListMembersOutput{
		Members:    members,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetMember loads a member's profile and the dues record for the given
// year. When no record exists for that year, defaults are presented
// (status unpaid, no amount) without creating a row. Year 0 selects the
// current calendar year.
func (s *MemberService) GetMember(ctx context.Context, id string, year int) (*MemberDetail, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if year == 0 {
		year = time.Now().Year()
	}

	history, err := s.cotisationRepo.ListByProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &MemberDetail{
		Profile: profile.ToResponse(),
		Years:   YearOptions(history, time.Now().Year()),
	}

	cotisation, err := s.cotisationRepo.GetByProfileAndYear(ctx, id, year)
	switch {
	case err == nil:
		detail.Cotisation = cotisation.ToResponse()
	case errors.Is(err, gorm.ErrRecordNotFound):
		detail.Cotisation = &models.CotisationResponse{
			ProfileID: id,
			Year:      year,
			Status:    string(domain.CotisationUnpaid),
		}
	default:
		return nil, err
	}

	return detail, nil
}

// YearOptions returns the selectable years for the dues form: every year
// in the member's history, the current year and the next one, descending.
func YearOptions(history []*models.Cotisation, currentYear int) []int {
	seen := map[int]bool{
		currentYear:     true,
		currentYear + 1: true,
	}
	for _, ct := range history {
		seen[ct.Year] = true
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// UpdateMember performs the two-step admin submit: (a) overwrite the
// profile with the full edited field set, then (b) upsert the cotisation
// for the submitted year. The writes are sequential and not atomic: when
// (b) fails after (a) succeeded, the profile change stays in place and
// the caller is told the dues part was not written.
//
// callerID is the editing admin's own profile; an admin editing their
// own record cannot clear the admin flag, so the last admin can never
// lock everyone out.
func (s *MemberService) UpdateMember(ctx context.Context, id, callerID string, input *UpdateMemberInput) (*MemberDetail, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if id == callerID && !input.IsAdmin {
		return nil, ErrSelfDemotion
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	applyMemberInput(profile, input)
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	year := time.Now().Year()
	if input.Cotisation != nil {
		year = input.Cotisation.Year
		if err := s.upsertCotisation(ctx, id, input.Cotisation); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCotisationNotWritten, err)
		}
	}

	log.Printf("✅ Member updated: %s (status: %s)", profile.Email, profile.Status)
	return s.GetMember(ctx, id, year)
}

// upsertCotisation writes the dues record keyed on (profile, year).
// paid_at is stamped when status becomes paid and cleared otherwise,
// regardless of the prior value.
func (s *MemberService) upsertCotisation(ctx context.Context, profileID string, input *CotisationInput) error {
	cotisation := &models.Cotisation{
		ProfileID: profileID,
		Year:      input.Year,
		Status:    input.Status,
		Amount:    input.Amount,
	}
	if input.Status == string(domain.CotisationPaid) {
		now := time.Now()
		cotisation.PaidAt = &now
	}
	return s.cotisationRepo.Upsert(ctx, cotisation)
}

// UploadLogo validates and stores a new logo for the member, then points
// the profile at the resulting public URL. Runs before the profile
// update when used from the edit flow.
func (s *MemberService) UploadLogo(ctx context.Context, id, contentType string, size int64, r io.Reader) (string, error) {
	if err := storage.ValidateLogo(contentType, size); err != nil {
		return "", err
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMemberNotFound
		}
		return "", err
	}

	url, err := s.logoStore.Upload(ctx, id, contentType, size, r)
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

// applyMemberInput overwrites the profile with the submitted field set,
// normalizing empty optional fields to NULL
func applyMemberInput(profile *models.Profile, input *UpdateMemberInput) {
	profile.Email = input.Email
	profile.CompanyName = nullable(input.CompanyName)
	profile.ManagerName = nullable(input.ManagerName)
	profile.Siret = nullable(input.Siret)
	profile.MemberType = nullable(input.MemberType)
	profile.LogoURL = nullable(input.LogoURL)
	profile.Sponsor = nullable(input.Sponsor)
	profile.JoinReason = nullable(input.JoinReason)
	profile.Phone = nullable(input.Phone)
	profile.Address = nullable(input.Address)
	profile.WebsiteURL = nullable(input.WebsiteURL)
	profile.InstagramURL = nullable(input.InstagramURL)
	profile.TiktokURL = nullable(input.TiktokURL)
	profile.Status = input.Status
	profile.IsAdmin = input.IsAdmin
	profile.CharterSigned = input.CharterSigned
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
