package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type stubUserRepo struct {
	users       map[string]models.User
	lastLoginID string
	newHash     string
}

func (m *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginID = id
	return nil
}

func (m *stubUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.newHash = passwordHash
	return nil
}

func authFixture(t *testing.T) (*stubUserRepo, *AuthService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{
		users: map[string]models.User{
			"user-1": {
				ID:           "user-1",
				Email:        "operador@hospshop.com.br",
				FullName:     "Operador Compras",
				Role:         models.RoleOperator,
				PasswordHash: string(hash),
				Active:       true,
			},
		},
	}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "procurement-api",
	})
	return repo, svc
}

func TestAuthServiceLogin(t *testing.T) {
	repo, svc := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "operador@hospshop.com.br",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, models.RoleOperator, resp.User.Role)
	assert.Equal(t, "user-1", repo.lastLoginID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "operador@hospshop.com.br",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ninguem@hospshop.com.br",
		Password: "s3cret!",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo, svc := authFixture(t)
	user := repo.users["user-1"]
	user.Active = false
	repo.users["user-1"] = user

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "operador@hospshop.com.br",
		Password: "s3cret!",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	_, svc := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "operador@hospshop.com.br",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleOperator, claims.Role)
	assert.Equal(t, "procurement-api", claims.Issuer)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	_, svc := authFixture(t)
	other := NewAuthService(&stubUserRepo{}, nil, nil, AuthConfig{Secret: "another-secret"})

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "operador@hospshop.com.br",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceChangePasswordWrongOldPassword(t *testing.T) {
	_, svc := authFixture(t)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpass1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo, svc := authFixture(t)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "s3cret!",
		NewPassword: "newpass1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, repo.newHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.newHash), []byte("newpass1")))
}
