package repositories

import (
	"context"

	"guilde-api/internal/adapters/persistence/models"
)

// ProfileRepository defines profile repository interface
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, status string, offset, limit int) ([]*models.Profile, int64, error)
	ListActive(ctx context.Context) ([]*models.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// CotisationRepository defines cotisation repository interface.
// Rows are only ever inserted or upserted, never deleted.
type CotisationRepository interface {
	GetByProfileAndYear(ctx context.Context, profileID string, year int) (*models.Cotisation, error)
	ListByProfile(ctx context.Context, profileID string) ([]*models.Cotisation, error)
	Upsert(ctx context.Context, cotisation *models.Cotisation) error
	CountByStatusForYear(ctx context.Context, year int) (map[string]int64, error)
}

// UserRepository defines user (auth account) repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByProfileID(ctx context.Context, profileID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// LoginCodeRepository defines magic-link login code repository interface
type LoginCodeRepository interface {
	Create(ctx context.Context, code *models.LoginCode) error
	GetByCodeHash(ctx context.Context, codeHash string) (*models.LoginCode, error)
	Consume(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context) error
}

// EventRepository defines event repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status string) ([]*models.Event, error)
}
