package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService("admin", string(hash), jwtService), jwtService
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newTestAuthService(t)

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Positive(t, resp.AccessTokenExpiresIn)

	subject, err := jwtService.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name string
		req  auth.LoginRequest
	}{
		{"wrong password", auth.LoginRequest{Username: "admin", Password: "wrong"}},
		{"wrong username", auth.LoginRequest{Username: "root", Password: "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "username")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestAuthService_Login_NotConfigured(t *testing.T) {
	svc := NewAuthService("", "", jwt.NewJWTService(testSecret, testAccessExp))
	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrOperatorDisabled)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newTestAuthService(t)

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))
	_, err = jwtService.ValidateAccessToken(resp.AccessToken)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.Logout(ctx, ""), auth.ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
