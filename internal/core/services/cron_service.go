package services

import (
	"context"
	"log"

	"guilde-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the nightly cleanup of expired credentials
type CronService struct {
	refreshRepo   repositories.RefreshTokenRepository
	loginCodeRepo repositories.LoginCodeRepository
	cron          *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(
	refreshRepo repositories.RefreshTokenRepository,
	loginCodeRepo repositories.LoginCodeRepository,
) *CronService {
	return &CronService{
		refreshRepo:   refreshRepo,
		loginCodeRepo: loginCodeRepo,
		cron:          cron.New(),
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Every night at 03:00: purge expired refresh tokens and login codes
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron jobs started (cleanup at 03:00)")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Cron jobs stopped")
}

func (s *CronService) cleanup() {
	ctx := context.Background()

	if err := s.refreshRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Cleanup of expired refresh tokens failed: %v", err)
	}
	if err := s.loginCodeRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Cleanup of expired login codes failed: %v", err)
	}

	log.Println("✅ Expired credentials cleanup done")
}
