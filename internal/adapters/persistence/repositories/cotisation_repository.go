package repositories

import (
	"context"

	"guilde-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cotisationRepository implements CotisationRepository interface
type cotisationRepository struct {
	db *gorm.DB
}

// NewCotisationRepository creates a new cotisation repository
func NewCotisationRepository(db *gorm.DB) CotisationRepository {
	return &cotisationRepository{db: db}
}

// GetByProfileAndYear gets the dues record for a profile and year
func (r *cotisationRepository) GetByProfileAndYear(ctx context.Context, profileID string, year int) (*models.Cotisation, error) {
	var cotisation models.Cotisation
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND year = ?", profileID, year).
		First(&cotisation).Error
	if err != nil {
		return nil, err
	}
	return &cotisation, nil
}

// ListByProfile lists all dues records for a profile, newest year first
func (r *cotisationRepository) ListByProfile(ctx context.Context, profileID string) ([]*models.Cotisation, error) {
	var cotisations []*models.Cotisation
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("year DESC").
		Find(&cotisations).Error
	if err != nil {
		return nil, err
	}
	return cotisations, nil
}

// Upsert inserts or updates the dues record keyed on (profile_id, year).
// The conflict target is the composite unique index, so submitting the
// same year twice updates the existing row instead of creating a second one.
func (r *cotisationRepository) Upsert(ctx context.Context, cotisation *models.Cotisation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "amount", "paid_at", "updated_at"}),
		}).
		Create(cotisation).Error
}

// CountByStatusForYear counts dues records grouped by status for one year
func (r *cotisationRepository) CountByStatusForYear(ctx context.Context, year int) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Cotisation{}).
		Select("status, COUNT(*) as count").
		Where("year = ?", year).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
