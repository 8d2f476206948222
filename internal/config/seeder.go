package config

import (
	"log"
	"os"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminProfile(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminProfile seeds the initial admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD. This is for development/testing only; in production,
// promote an admin through the user management screen.
func (s *Seeder) seedAdminProfile() error {
	email := os.Getenv("ADMIN_EMAIL")
	pass := os.Getenv("ADMIN_PASSWORD")
	if email == "" || pass == "" {
		return nil
	}

	// Check if an admin already exists
	var count int64
	s.db.Model(&models.Profile{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		return err
	}

	profileID := uuid.New().String()
	profile := &models.Profile{
		ID:            profileID,
		Email:         email,
		Status:        "active",
		IsAdmin:       true,
		CharterSigned: true,
	}
	if err := s.db.Create(profile).Error; err != nil {
		return err
	}

	user := &models.User{
		ProfileID: profileID,
		Email:     email,
		Password:  &hashed,
		IsActive:  true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("   Created admin account: %s", email)
	return nil
}
