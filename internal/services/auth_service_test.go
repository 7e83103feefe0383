package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
	"tiendapesca/internal/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthService(t *testing.T, env *testEnv) *services.AuthService {
	t.Helper()
	return services.NewAuthService(env.users, testSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	user, err := auth.Register(services.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")

	token, err := auth.Login(services.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	loaded, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, "ana@example.com", loaded.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	_, err := auth.Register(services.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = auth.Register(services.RegisterRequest{Name: "Other", Email: "ana@example.com", Password: "different"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	_, err := auth.Register(services.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = auth.Login(services.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	// Unknown accounts fail exactly the same way.
	_, err = auth.Login(services.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestValidateTokenRejectsGarbageAndExpired(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	_, err := auth.ValidateToken("not-a-token")
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))

	expiring := services.NewAuthService(env.users, testSecret, -time.Minute)
	_, err = expiring.Register(services.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	token, err := expiring.Login(services.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = expiring.ValidateToken(token)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestValidateTokenWrongSecret(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)
	_, err := auth.Register(services.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	token, err := auth.Login(services.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	other := services.NewAuthService(env.users, "ffffffffffffffffffffffffffffffff", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}
