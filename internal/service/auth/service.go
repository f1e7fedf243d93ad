package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceImpl authenticates the single operator account configured
// through ADMIN_USERNAME and ADMIN_PASSWORD_HASH.
type AuthServiceImpl struct {
	username     string
	passwordHash string
	jwt.Service
}

func NewAuthService(username, passwordHash string, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		username:     username,
		passwordHash: passwordHash,
		Service:      jwtService,
	}
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if a.username == "" || a.passwordHash == "" {
		return auth.TokenResponse{}, auth.ErrOperatorDisabled
	}

	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passwordErr := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(req.Password))
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.username)) == 1
	if !usernameOK || passwordErr != nil {
		slog.Warn("operator login rejected", "username", req.Username)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(a.username)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("operator logged in", "username", a.username)
	return auth.TokenResponse{
		AccessToken:          token,
		TokenType:            "Bearer",
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token)
	return nil
}
