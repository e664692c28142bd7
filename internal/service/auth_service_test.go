package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

func newTestAuthService() *AuthService {
	return NewAuthService(nil, nil, AuthConfig{
		Password:  "letmein",
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
		Issuer:    "checkin-api",
	})
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestAuthService()

	res, err := svc.Login(models.LoginRequest{Password: "letmein"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Greater(t, res.ExpiresAt, time.Now().Unix())

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "checkin-api", claims.Issuer)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(models.LoginRequest{Password: "guess"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLoginEmptyPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService()

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ValidateToken(raw)
		assert.Error(t, err, raw)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService()
	res, err := issuer.Login(models.LoginRequest{Password: "letmein"})
	require.NoError(t, err)

	other := NewAuthService(nil, nil, AuthConfig{Password: "letmein", JWTSecret: "different", JWTExpiry: time.Hour})
	_, err = other.ValidateToken(res.Token)
	assert.Error(t, err)
}
