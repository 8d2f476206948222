package repositories

import (
	"context"
	"time"

	"guilde-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loginCodeRepository implements LoginCodeRepository interface
type loginCodeRepository struct {
	db *gorm.DB
}

// NewLoginCodeRepository creates a new login code repository
func NewLoginCodeRepository(db *gorm.DB) LoginCodeRepository {
	return &loginCodeRepository{db: db}
}

// Create creates a new login code
func (r *loginCodeRepository) Create(ctx context.Context, code *models.LoginCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// GetByCodeHash gets an unconsumed login code by its hash
func (r *loginCodeRepository) GetByCodeHash(ctx context.Context, codeHash string) (*models.LoginCode, error) {
	var code models.LoginCode
	err := r.db.WithContext(ctx).
		Where("code_hash = ?", codeHash).
		Where("consumed_at IS NULL").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// Consume marks a login code as used
func (r *loginCodeRepository) Consume(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.LoginCode{}).
		Where("id = ?", id).
		Update("consumed_at", &now).Error
}

// DeleteExpired deletes expired and consumed codes (cleanup job)
func (r *loginCodeRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ? OR consumed_at IS NOT NULL", time.Now()).
		Delete(&models.LoginCode{}).Error
}
