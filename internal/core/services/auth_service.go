package services

import (
	"context"
	"errors"
	"log"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/config"
	"guilde-api/internal/pkg/jwt"
	"guilde-api/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidLoginCode   = errors.New("invalid or expired login code")
	ErrNoPasswordSet      = errors.New("no password set for this account")
)

// loginCodeExpiry is how long a magic-link code stays valid
const loginCodeExpiry = 1 * time.Hour

// AuthService handles authentication business logic
type AuthService struct {
	userRepo      repositories.UserRepository
	profileRepo   repositories.ProfileRepository
	refreshRepo   repositories.RefreshTokenRepository
	loginCodeRepo repositories.LoginCodeRepository
	mailService   *MailService
	cfg           *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshRepo repositories.RefreshTokenRepository,
	loginCodeRepo repositories.LoginCodeRepository,
	mailService *MailService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		refreshRepo:   refreshRepo,
		loginCodeRepo: loginCodeRepo,
		mailService:   mailService,
		cfg:           cfg,
	}
}

// LoginInput represents password login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Profile      *models.ProfileResponse `json:"profile"`
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	// 3. Verify password (magic-link-only accounts have none)
	if user.Password == nil {
		return nil, ErrNoPasswordSet
	}
	if !password.Verify(input.Password, *user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// RequestMagicLink creates a one-time login code for the email and sends
// the sign-in link. The code is stored hashed, like refresh tokens.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	code := uuid.New().String()
	loginCode := &models.LoginCode{
		CodeHash:  password.HashToken(code),
		Email:     profile.Email,
		ProfileID: profile.ID,
		ExpiresAt: time.Now().Add(loginCodeExpiry),
	}
	if err := s.loginCodeRepo.Create(ctx, loginCode); err != nil {
		return err
	}

	link := s.cfg.BaseURL + "/auth/callback?code=" + code
	if err := s.mailService.SendMagicLink(profile.Email, link); err != nil {
		log.Printf("⚠️ Failed to send magic link to %s: %v", profile.Email, err)
		return err
	}

	log.Printf("✅ Magic link issued for %s", profile.Email)
	return nil
}

// ExchangeCode exchanges a one-time login code for a session. A user row
// is created on first exchange (applicants sign in before ever setting a
// password).
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (*AuthResponse, error) {
	codeHash := password.HashToken(code)

	loginCode, err := s.loginCodeRepo.GetByCodeHash(ctx, codeHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidLoginCode
		}
		return nil, err
	}

	if loginCode.IsExpired() || loginCode.IsConsumed() {
		return nil, ErrInvalidLoginCode
	}

	if err := s.loginCodeRepo.Consume(ctx, loginCode.ID); err != nil {
		return nil, err
	}

	// Get or create the auth account bound to the profile
	user, err := s.userRepo.GetByProfileID(ctx, loginCode.ProfileID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &models.User{
			ProfileID: loginCode.ProfileID,
			Email:     loginCode.Email,
			IsActive:  true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueSession(ctx, user)
}

// RefreshToken refreshes the access token using a refresh token (rotation)
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Find the stored token by hash
	tokenHash := password.HashToken(refreshToken)
	storedToken, err := s.refreshRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 3. Get user
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	// 4. Revoke old refresh token (rotation)
	if err := s.refreshRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	if err := s.refreshRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}
	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}
	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// GetProfileByID loads the profile bound to an identity
func (s *AuthService) GetProfileByID(ctx context.Context, profileID string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, profileID)
}

// issueSession generates a token pair and stores the refresh token
func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.ProfileID,
		user.Email,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	// The session payload carries the profile, not the auth row
	profile, err := s.profileRepo.GetByID(ctx, user.ProfileID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Session issued for %s", user.Email)

	return &AuthResponse{
		Profile:      profile.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
