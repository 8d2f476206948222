package services

import (
	"context"
	"testing"
	"time"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/config"
	"guilde-api/internal/core/domain"
	"guilde-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ============================================================
// Fakes
// ============================================================

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByProfileID(_ context.Context, profileID string) (*models.User, error) {
	for _, u := range r.users {
		if u.ProfileID == profileID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeRefreshRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[uint]*models.RefreshToken)}
}

func (r *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) error {
	r.nextID++
	t.ID = r.nextID
	r.tokens[t.ID] = t
	return nil
}

func (r *fakeRefreshRepo) GetByTokenHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == hash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshRepo) Revoke(_ context.Context, id uint) error {
	if t, ok := r.tokens[id]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshRepo) RevokeByTokenHash(ctx context.Context, hash string) error {
	t, err := r.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil
	}
	return r.Revoke(ctx, t.ID)
}

func (r *fakeRefreshRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshRepo) DeleteExpired(_ context.Context) error {
	for id, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}

type fakeLoginCodeRepo struct {
	codes  map[uint]*models.LoginCode
	nextID uint
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{codes: make(map[uint]*models.LoginCode)}
}

func (r *fakeLoginCodeRepo) Create(_ context.Context, c *models.LoginCode) error {
	r.nextID++
	c.ID = r.nextID
	r.codes[c.ID] = c
	return nil
}

func (r *fakeLoginCodeRepo) GetByCodeHash(_ context.Context, hash string) (*models.LoginCode, error) {
	for _, c := range r.codes {
		if c.CodeHash == hash {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoginCodeRepo) Consume(_ context.Context, id uint) error {
	if c, ok := r.codes[id]; ok {
		now := time.Now()
		c.ConsumedAt = &now
	}
	return nil
}

func (r *fakeLoginCodeRepo) DeleteExpired(_ context.Context) error {
	for id, c := range r.codes {
		if c.IsExpired() {
			delete(r.codes, id)
		}
	}
	return nil
}

// ============================================================
// Helpers
// ============================================================

type authFixture struct {
	svc         *AuthService
	profileRepo *fakeProfileRepo
	userRepo    *fakeUserRepo
	refreshRepo *fakeRefreshRepo
	codeRepo    *fakeLoginCodeRepo
}

func newAuthFixture(profiles ...*models.Profile) *authFixture {
	cfg := &config.Config{
		BaseURL: "https://laguildedesvoyageurs.fr",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	f := &authFixture{
		profileRepo: newFakeProfileRepo(profiles...),
		userRepo:    newFakeUserRepo(),
		refreshRepo: newFakeRefreshRepo(),
		codeRepo:    newFakeLoginCodeRepo(),
	}
	f.svc = NewAuthService(f.userRepo, f.profileRepo, f.refreshRepo, f.codeRepo, NewMailService(), cfg)
	return f
}

func activeProfile(id, email string) *models.Profile {
	return &models.Profile{ID: id, Email: email, Status: string(domain.StatusActive)}
}

// ============================================================
// Tests
// ============================================================

func TestRequestMagicLinkUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.RequestMagicLink(context.Background(), "unknown@example.fr")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Empty(t, f.codeRepo.codes)
}

func TestRequestMagicLinkStoresHashedCode(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))

	err := f.svc.RequestMagicLink(context.Background(), "voyageur@example.fr")
	require.NoError(t, err)

	require.Len(t, f.codeRepo.codes, 1)
	code := f.codeRepo.codes[1]
	assert.Equal(t, "p1", code.ProfileID)
	assert.True(t, code.ExpiresAt.After(time.Now()))
	// The stored value is a SHA-256 hash, never the raw code
	assert.Len(t, code.CodeHash, 64)
}

func TestExchangeCodeCreatesUserOnFirstSignIn(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))

	raw := "one-time-code"
	require.NoError(t, f.codeRepo.Create(context.Background(), &models.LoginCode{
		CodeHash:  password.HashToken(raw),
		Email:     "voyageur@example.fr",
		ProfileID: "p1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	result, err := f.svc.ExchangeCode(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "p1", result.Profile.ID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// An auth account was created, without a password
	user, err := f.userRepo.GetByProfileID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, user.Password)
}

func TestExchangeCodeSingleUse(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))

	raw := "one-time-code"
	require.NoError(t, f.codeRepo.Create(context.Background(), &models.LoginCode{
		CodeHash:  password.HashToken(raw),
		Email:     "voyageur@example.fr",
		ProfileID: "p1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err := f.svc.ExchangeCode(context.Background(), raw)
	require.NoError(t, err)

	_, err = f.svc.ExchangeCode(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidLoginCode)
}

func TestExchangeCodeExpired(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))

	raw := "stale-code"
	require.NoError(t, f.codeRepo.Create(context.Background(), &models.LoginCode{
		CodeHash:  password.HashToken(raw),
		Email:     "voyageur@example.fr",
		ProfileID: "p1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := f.svc.ExchangeCode(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidLoginCode)
}

func TestLoginWithoutPassword(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))
	require.NoError(t, f.userRepo.Create(context.Background(), &models.User{
		ProfileID: "p1",
		Email:     "voyageur@example.fr",
		IsActive:  true,
	}))

	_, err := f.svc.Login(context.Background(), &LoginInput{
		Email:    "voyageur@example.fr",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrNoPasswordSet)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))

	hashed, err := password.Hash("correct-horse")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Create(context.Background(), &models.User{
		ProfileID: "p1",
		Email:     "voyageur@example.fr",
		Password:  &hashed,
		IsActive:  true,
	}))

	_, err = f.svc.Login(context.Background(), &LoginInput{
		Email:    "voyageur@example.fr",
		Password: "battery-staple",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newAuthFixture(activeProfile("p1", "voyageur@example.fr"))

	hashed, err := password.Hash("correct-horse")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Create(context.Background(), &models.User{
		ProfileID: "p1",
		Email:     "voyageur@example.fr",
		Password:  &hashed,
		IsActive:  true,
	}))

	session, err := f.svc.Login(context.Background(), &LoginInput{
		Email:    "voyageur@example.fr",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)

	// The old refresh token was revoked by the rotation
	_, err = f.svc.RefreshToken(context.Background(), session.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
