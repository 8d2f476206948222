package services

import (
	"context"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/core/domain"
)

// DashboardService aggregates counters for the admin home screen
type DashboardService struct {
	profileRepo    repositories.ProfileRepository
	cotisationRepo repositories.CotisationRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	profileRepo repositories.ProfileRepository,
	cotisationRepo repositories.CotisationRepository,
) *DashboardService {
	return &DashboardService{
		profileRepo:    profileRepo,
		cotisationRepo: cotisationRepo,
	}
}

// DashboardStats represents admin dashboard statistics
type DashboardStats struct {
	Year               int                       `json:"year"`
	MembersByStatus    map[string]int64          `json:"members_by_status"`
	CotisationsByState map[string]int64          `json:"cotisations_by_status"`
	PendingReview      int64                     `json:"pending_review"`
	ActiveMembers      int64                     `json:"active_members"`
	RecentApplications []*models.ProfileResponse `json:"recent_applications"`
}

// GetStats builds the dashboard for the given year (0 = current year)
func (s *DashboardService) GetStats(ctx context.Context, year int) (*DashboardStats, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	byStatus, err := s.profileRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	cotisations, err := s.cotisationRepo.CountByStatusForYear(ctx, year)
	if err != nil {
		return nil, err
	}

	// Latest pending applications, newest first
	pending, _, err := s.profileRepo.List(ctx, string(domain.StatusPendingReview), 0, 5)
	if err != nil {
		return nil, err
	}
	recent := make([]*models.ProfileResponse, len(pending))
	for i, p := range pending {
		recent[i] = p.ToResponse()
	}

	return &DashboardStats{
		Year:               year,
		MembersByStatus:    byStatus,
		CotisationsByState: cotisations,
		PendingReview:      byStatus[string(domain.StatusPendingReview)],
		ActiveMembers:      byStatus[string(domain.StatusActive)],
		RecentApplications: recent,
	}, nil
}
