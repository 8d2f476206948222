package services

import (
	"context"
	"log"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/core/domain"

	"github.com/google/uuid"
)

// ApplicationService handles the public membership application flow
// ("postuler"): create a pending_review profile, then invite the
// applicant by magic link.
type ApplicationService struct {
	profileRepo repositories.ProfileRepository
	authService *AuthService
	mailService *MailService
}

// NewApplicationService creates a new application service
func NewApplicationService(
	profileRepo repositories.ProfileRepository,
	authService *AuthService,
	mailService *MailService,
) *ApplicationService {
	return &ApplicationService{
		profileRepo: profileRepo,
		authService: authService,
		mailService: mailService,
	}
}

// ApplyInput represents a membership application
type ApplyInput struct {
	Email        string `json:"email"`
	CompanyName  string `json:"company_name"`
	ManagerName  string `json:"manager_name"`
	Siret        string `json:"siret"`
	MemberType   string `json:"member_type"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	WebsiteURL   string `json:"website_url"`
	InstagramURL string `json:"instagram_url"`
	TiktokURL    string `json:"tiktok_url"`
	JoinReason   string `json:"join_reason"`
	Sponsor      string `json:"sponsor"`
}

// Apply registers a new applicant as a pending_review profile and sends
// the activation magic link
func (s *ApplicationService) Apply(ctx context.Context, input *ApplyInput) (*models.ProfileResponse, error) {
	if !domain.IsValidMemberType(input.MemberType) {
		return nil, domain.ErrInvalidMemberType
	}

	exists, err := s.profileRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyUsed
	}

	profile := &models.Profile{
		ID:           uuid.New().String(),
		Email:        input.Email,
		CompanyName:  nullable(input.CompanyName),
		ManagerName:  nullable(input.ManagerName),
		Siret:        nullable(input.Siret),
		MemberType:   nullable(input.MemberType),
		Phone:        nullable(input.Phone),
		Address:      nullable(input.Address),
		WebsiteURL:   nullable(input.WebsiteURL),
		InstagramURL: nullable(input.InstagramURL),
		TiktokURL:    nullable(input.TiktokURL),
		JoinReason:   nullable(input.JoinReason),
		Sponsor:      nullable(input.Sponsor),
		Status:       string(domain.StatusPendingReview),
		IsAdmin:      false,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	// Invite the applicant to open their account. Failure here is not
	// fatal: the profile exists and an admin can resend the link.
	if err := s.authService.RequestMagicLink(ctx, input.Email); err != nil {
		log.Printf("⚠️ Application saved but invitation failed for %s: %v", input.Email, err)
	}
	_ = s.mailService.SendApplicationReceived(input.Email)

	log.Printf("✅ Application received: %s (%s)", input.Email, profile.ID)
	return profile.ToResponse(), nil
}
