package services

import (
	"context"
	"errors"
	"log"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
)

// UserService handles admin management of auth accounts
type UserService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	refreshRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		refreshRepo: refreshRepo,
	}
}

// ListUsersOutput represents the paged account list
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ListUsers lists auth accounts enriched with their profile data
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ListUsersOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*models.UserResponse, len(users))
	for i, u := range users {
		resp := u.ToResponse()
		if profile, err := s.profileRepo.GetByID(ctx, u.ProfileID); err == nil {
			resp.IsAdmin = profile.IsAdmin
			if profile.CompanyName != nil {
				resp.CompanyName = *profile.CompanyName
			}
		}
		out[i] = resp
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      out,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// SetActive enables or disables an account. Disabling also revokes every
// live session so the account is locked out immediately. Admins cannot
// disable the account they are signed in with.
func (s *UserService) SetActive(ctx context.Context, id uint, active bool, callerUserID uint) (*models.UserResponse, error) {
	if !active && id == callerUserID {
		return nil, ErrSelfDeactivation
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = active
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if !active {
		if err := s.refreshRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			log.Printf("⚠️ Failed to revoke sessions for user %d: %v", user.ID, err)
		}
	}

	log.Printf("✅ User %s active=%t", user.Email, active)
	return user.ToResponse(), nil
}

// SetPassword sets or replaces the password of an account
func (s *UserService) SetPassword(ctx context.Context, id uint, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = &hashed
	user.UpdatedAt = time.Now()

	return s.userRepo.Update(ctx, user)
}
