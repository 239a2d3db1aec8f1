package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduverse-labs/eduverse-api/internal/models"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

type mockUserRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[string]*models.User
	findByIDErr  error
	createErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[string]*models.User),
	}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = "generated-id"
	}
	stored := *user
	m.usersByEmail[user.Email] = &stored
	m.usersByID[user.ID] = &stored
	return nil
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, zap.NewNop(), AuthConfig{
		Secret:          "secret",
		Expiry:          time.Hour,
		RefreshInterval: 5 * time.Minute,
	})
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Empty(t, user.Password)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleStudent, res.User.Role)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	repo := newMockUserRepo()
	repo.usersByEmail["ann@x.com"] = &models.User{ID: "u1", Email: "ann@x.com", Password: string(hash), Role: models.RoleStudent}
	svc := newAuthService(repo)

	_, wrongPassErr := svc.Login(context.Background(), models.LoginRequest{Email: "ann@x.com", Password: "wrong"})
	require.Error(t, wrongPassErr)

	_, noUserErr := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@x.com", Password: "whatever"})
	require.Error(t, noUserErr)

	assert.Equal(t, appErrors.FromError(wrongPassErr).Code, appErrors.FromError(noUserErr).Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(noUserErr).Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.usersByEmail["ann@x.com"] = &models.User{ID: "u1", Email: "ann@x.com"}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUserExists.Code, appErrors.FromError(err).Code)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "short"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "password", appErr.Field)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	token, _, err := svc.mintToken(&models.User{ID: "u1", Role: models.RoleStudent}, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRefreshKeepsFreshClaims(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent, LastRefresh: time.Now().UnixMilli()}
	token, refreshed := svc.Refresh(context.Background(), claims)
	assert.Empty(t, token)
	assert.Same(t, claims, refreshed)
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	repo := newMockUserRepo()
	repo.usersByID["u1"] = &models.User{ID: "u1", Name: "Ann", Email: "ann@x.com", Role: models.RoleInstructor}
	svc := newAuthService(repo)

	stale := &models.JWTClaims{
		UserID:      "u1",
		Role:        models.RoleStudent,
		Name:        "Ann",
		LastRefresh: time.Now().Add(-10 * time.Minute).UnixMilli(),
	}

	token, refreshed := svc.Refresh(context.Background(), stale)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleInstructor, refreshed.Role)
	assert.Greater(t, refreshed.LastRefresh, stale.LastRefresh)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, claims.Role)
}

func TestRefreshFailsOpenOnStoreError(t *testing.T) {
	repo := newMockUserRepo()
	repo.findByIDErr = errors.New("store unreachable")
	svc := newAuthService(repo)

	stale := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent, LastRefresh: time.Now().Add(-time.Hour).UnixMilli()}
	token, refreshed := svc.Refresh(context.Background(), stale)
	assert.Empty(t, token)
	assert.Same(t, stale, refreshed)
}
