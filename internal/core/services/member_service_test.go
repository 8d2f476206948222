package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ============================================================
// Fakes
// ============================================================

type fakeProfileRepo struct {
	profiles  map[string]*models.Profile
	updateErr error
	updates   int
}

func newFakeProfileRepo(profiles ...*models.Profile) *fakeProfileRepo {
	m := make(map[string]*models.Profile)
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &fakeProfileRepo{profiles: m}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) List(_ context.Context, status string, offset, limit int) ([]*models.Profile, int64, error) {
	var out []*models.Profile
	for _, p := range r.profiles {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProfileRepo) ListActive(_ context.Context) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range r.profiles {
		if p.Status == string(domain.StatusActive) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeProfileRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, p := range r.profiles {
		counts[p.Status]++
	}
	return counts, nil
}

type fakeCotisationRepo struct {
	records   map[string]*models.Cotisation // key: profileID + "-" + year
	upsertErr error
	upserts   int
	nextID    uint
}

func newFakeCotisationRepo() *fakeCotisationRepo {
	return &fakeCotisationRepo{records: make(map[string]*models.Cotisation)}
}

func cotisationKey(profileID string, year int) string {
	return fmt.Sprintf("%s-%d", profileID, year)
}

func (r *fakeCotisationRepo) GetByProfileAndYear(_ context.Context, profileID string, year int) (*models.Cotisation, error) {
	ct, ok := r.records[cotisationKey(profileID, year)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ct, nil
}

func (r *fakeCotisationRepo) ListByProfile(_ context.Context, profileID string) ([]*models.Cotisation, error) {
	var out []*models.Cotisation
	for _, ct := range r.records {
		if ct.ProfileID == profileID {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (r *fakeCotisationRepo) Upsert(_ context.Context, ct *models.Cotisation) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts++

	key := cotisationKey(ct.ProfileID, ct.Year)
	if existing, ok := r.records[key]; ok {
		existing.Status = ct.Status
		existing.Amount = ct.Amount
		existing.PaidAt = ct.PaidAt
		existing.UpdatedAt = time.Now()
		return nil
	}

	r.nextID++
	ct.ID = r.nextID
	ct.CreatedAt = time.Now()
	ct.UpdatedAt = ct.CreatedAt
	r.records[key] = ct
	return nil
}

func (r *fakeCotisationRepo) CountByStatusForYear(_ context.Context, year int) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, ct := range r.records {
		if ct.Year == year {
			counts[ct.Status]++
		}
	}
	return counts, nil
}

func testProfile(id string) *models.Profile {
	company := "Atelier Boussole"
	return &models.Profile{
		ID:          id,
		Email:       "contact@boussole.fr",
		CompanyName: &company,
		Status:      string(domain.StatusPendingReview),
	}
}

func validInput() *UpdateMemberInput {
	return &UpdateMemberInput{
		Email:       "contact@boussole.fr",
		CompanyName: "Atelier Boussole",
		MemberType:  "artisan",
		Status:      string(domain.StatusActive),
	}
}

// ============================================================
// Tests
// ============================================================

func TestUpdateMemberInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UpdateMemberInput)
		wantErr error
	}{
		{
			name:   "valid input passes",
			mutate: func(in *UpdateMemberInput) {},
		},
		{
			name:   "empty member type allowed",
			mutate: func(in *UpdateMemberInput) { in.MemberType = "" },
		},
		{
			name:    "unknown member type rejected",
			mutate:  func(in *UpdateMemberInput) { in.MemberType = "wizard" },
			wantErr: domain.ErrInvalidMemberType,
		},
		{
			name:    "capitalized member type rejected",
			mutate:  func(in *UpdateMemberInput) { in.MemberType = "Artisan" },
			wantErr: domain.ErrInvalidMemberType,
		},
		{
			name:    "unknown status rejected",
			mutate:  func(in *UpdateMemberInput) { in.Status = "frozen" },
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name: "unknown cotisation status rejected",
			mutate: func(in *UpdateMemberInput) {
				in.Cotisation = &CotisationInput{Year: time.Now().Year(), Status: "maybe"}
			},
			wantErr: domain.ErrInvalidCotisationStatus,
		},
		{
			name: "year too far in the future rejected",
			mutate: func(in *UpdateMemberInput) {
				in.Cotisation = &CotisationInput{Year: time.Now().Year() + 2, Status: "paid"}
			},
			wantErr: domain.ErrInvalidYear,
		},
		{
			name: "next year accepted",
			mutate: func(in *UpdateMemberInput) {
				in.Cotisation = &CotisationInput{Year: time.Now().Year() + 1, Status: "unpaid"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			err := in.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateMemberRejectsBeforeAnyWrite(t *testing.T) {
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	cotisationRepo := newFakeCotisationRepo()
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	in := validInput()
	in.MemberType = "wizard"

	_, err := svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.ErrorIs(t, err, domain.ErrInvalidMemberType)

	// No write reached either store
	assert.Equal(t, 0, profileRepo.updates)
	assert.Equal(t, 0, cotisationRepo.upserts)
}

func TestUpdateMemberScenario(t *testing.T) {
	// An applicant is approved: status pending_review -> active, with the
	// 2024 cotisation recorded as paid, 50 euros.
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	cotisationRepo := newFakeCotisationRepo()
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	amount := 50.0
	in := validInput()
	in.Cotisation = &CotisationInput{Year: 2024, Status: "paid", Amount: &amount}

	detail, err := svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusActive), detail.Profile.Status)
	assert.Equal(t, 2024, detail.Cotisation.Year)
	assert.Equal(t, "paid", detail.Cotisation.Status)
	require.NotNil(t, detail.Cotisation.Amount)
	assert.Equal(t, 50.0, *detail.Cotisation.Amount)
	assert.NotNil(t, detail.Cotisation.PaidAt)
}

func TestUpsertCotisationIdempotent(t *testing.T) {
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	cotisationRepo := newFakeCotisationRepo()
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	amount := 50.0
	in := validInput()
	in.Cotisation = &CotisationInput{Year: 2024, Status: "paid", Amount: &amount}

	// Submitting the same year twice must not create a second row
	_, err := svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.NoError(t, err)
	_, err = svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.NoError(t, err)

	assert.Len(t, cotisationRepo.records, 1)
	assert.Equal(t, 2, cotisationRepo.upserts)
}

func TestUpsertCotisationPaidAtInvariant(t *testing.T) {
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	cotisationRepo := newFakeCotisationRepo()
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	in := validInput()
	in.Cotisation = &CotisationInput{Year: 2024, Status: "paid"}

	_, err := svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.NoError(t, err)

	ct, err := cotisationRepo.GetByProfileAndYear(context.Background(), "p1", 2024)
	require.NoError(t, err)
	assert.NotNil(t, ct.PaidAt, "paid_at must be stamped when status is paid")

	// Flipping back to unpaid clears the timestamp
	in.Cotisation.Status = "unpaid"
	_, err = svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.NoError(t, err)

	ct, err = cotisationRepo.GetByProfileAndYear(context.Background(), "p1", 2024)
	require.NoError(t, err)
	assert.Nil(t, ct.PaidAt, "paid_at must be cleared when status is not paid")
}

func TestUpdateMemberPartialFailure(t *testing.T) {
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	cotisationRepo := newFakeCotisationRepo()
	cotisationRepo.upsertErr = errors.New("connection reset")
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	in := validInput()
	in.Cotisation = &CotisationInput{Year: 2024, Status: "paid"}

	_, err := svc.UpdateMember(context.Background(), "p1", "admin-9", in)
	require.ErrorIs(t, err, ErrCotisationNotWritten)

	// The profile change stays in place
	assert.Equal(t, 1, profileRepo.updates)
	assert.Equal(t, string(domain.StatusActive), profileRepo.profiles["p1"].Status)
}

func TestUpdateMemberNotFound(t *testing.T) {
	svc := NewMemberService(newFakeProfileRepo(), newFakeCotisationRepo(), nil)

	_, err := svc.UpdateMember(context.Background(), "missing", "admin-9", validInput())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestUpdateMemberSelfDemotion(t *testing.T) {
	admin := testProfile("admin-9")
	admin.IsAdmin = true
	admin.Status = string(domain.StatusActive)

	profileRepo := newFakeProfileRepo(admin)
	cotisationRepo := newFakeCotisationRepo()
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	// An admin cannot clear the admin flag on their own record
	in := validInput()
	in.IsAdmin = false

	_, err := svc.UpdateMember(context.Background(), "admin-9", "admin-9", in)
	require.ErrorIs(t, err, ErrSelfDemotion)
	assert.Equal(t, 0, profileRepo.updates)
	assert.True(t, profileRepo.profiles["admin-9"].IsAdmin)

	// Editing their own record while keeping the flag is fine
	in.IsAdmin = true
	_, err = svc.UpdateMember(context.Background(), "admin-9", "admin-9", in)
	require.NoError(t, err)

	// And demoting somebody else still works
	other := testProfile("p2")
	other.IsAdmin = true
	profileRepo.profiles["p2"] = other

	in = validInput()
	in.IsAdmin = false
	_, err = svc.UpdateMember(context.Background(), "p2", "admin-9", in)
	require.NoError(t, err)
	assert.False(t, profileRepo.profiles["p2"].IsAdmin)
}

func TestGetMemberDefaultsForAbsentYear(t *testing.T) {
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	cotisationRepo := newFakeCotisationRepo()
	svc := NewMemberService(profileRepo, cotisationRepo, nil)

	detail, err := svc.GetMember(context.Background(), "p1", 2023)
	require.NoError(t, err)

	// Viewing a year with no record presents defaults without writing
	assert.Equal(t, 2023, detail.Cotisation.Year)
	assert.Equal(t, string(domain.CotisationUnpaid), detail.Cotisation.Status)
	assert.Nil(t, detail.Cotisation.Amount)
	assert.Nil(t, detail.Cotisation.PaidAt)
	assert.Empty(t, cotisationRepo.records)
}

func TestUploadLogoRejectedBeforeStorage(t *testing.T) {
	profileRepo := newFakeProfileRepo(testProfile("p1"))
	// nil store: any storage access would panic, proving rejection
	// happens before the upload is attempted
	svc := NewMemberService(profileRepo, newFakeCotisationRepo(), nil)

	_, err := svc.UploadLogo(context.Background(), "p1", "image/jpeg", 6*1024*1024, nil)
	assert.ErrorIs(t, err, domain.ErrLogoTooLarge)

	_, err = svc.UploadLogo(context.Background(), "p1", "image/svg+xml", 1024, nil)
	assert.ErrorIs(t, err, domain.ErrLogoUnsupportedType)
}

func TestYearOptions(t *testing.T) {
	history := []*models.Cotisation{
		{ProfileID: "p1", Year: 2022},
		{ProfileID: "p1", Year: 2024},
	}

	years := YearOptions(history, 2025)

	// Union of history and {current, current+1}, descending, no duplicates
	assert.Equal(t, []int{2026, 2025, 2024, 2022}, years)
}

func TestYearOptionsNoHistory(t *testing.T) {
	years := YearOptions(nil, 2025)
	assert.Equal(t, []int{2026, 2025}, years)
}
