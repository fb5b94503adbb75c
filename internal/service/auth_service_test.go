package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type mockPrincipalRepo struct {
	accounts map[string]models.PrincipalAccount
}

func (m *mockPrincipalRepo) FindPrincipalByEmail(ctx context.Context, email string) (*models.PrincipalAccount, error) {
	if a, ok := m.accounts[email]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func authFixture(t *testing.T, active bool) *mockPrincipalRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockPrincipalRepo{accounts: map[string]models.PrincipalAccount{
		"ana@example.com": {
			Account: models.Account{
				ID:           "u1",
				FirstName:    "Ana",
				LastName:     "Flores",
				Email:        "ana@example.com",
				PasswordHash: string(hash),
				Active:       active,
			},
			PrincipalID: "al-1",
			Role:        models.RoleStudent,
		},
	}}
}

func authConfig() AuthConfig {
	return AuthConfig{TokenSecret: "test-secret", TokenExpiry: time.Hour, Issuer: "tutoring-center-api"}
}

func TestAuthServiceLogin(t *testing.T) {
	svc := NewAuthService(authFixture(t, true), validator.New(), zap.NewNop(), authConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "al-1", resp.User.ID)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.Equal(t, "Ana Flores", resp.User.FullName)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(authFixture(t, true), validator.New(), zap.NewNop(), authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(authFixture(t, true), validator.New(), zap.NewNop(), authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc := NewAuthService(authFixture(t, false), validator.New(), zap.NewNop(), authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(authFixture(t, true), validator.New(), zap.NewNop(), authConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "al-1", claims.PrincipalID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	principal := claims.Principal()
	assert.True(t, principal.IsStudent())
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(authFixture(t, true), validator.New(), zap.NewNop(), authConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
