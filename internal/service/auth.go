package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qnrlabs/order_service/internal/hash"
	"github.com/qnrlabs/order_service/internal/logging"
	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/repo"
	"github.com/qnrlabs/order_service/internal/tokens"
)

var (
	ErrUserExists         = errors.New("username already exists") // 409
	ErrInvalidRole        = errors.New("invalid role")            // 400
	ErrInvalidCredentials = errors.New("invalid credentials")     // 401
)

type AuthService struct {
	Repo      *repo.GormRepo
	Codec     *tokens.Codec
	Blacklist *TokenBlacklistService
}

type AuthResult struct {
	Username string
	Role     string
	Token    string
	Message  string
}

func (s *AuthService) Register(ctx context.Context, username, password, roleName string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	role, ok := models.ParseRole(roleName)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be ADMIN or USER", ErrInvalidRole, roleName)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "reason", "user_exists")
			return nil, ErrUserExists
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	token, err := s.Codec.CreateToken(user.Username, user.Role, time.Now())
	if err != nil {
		l.Error("register_error", "reason", "cannot create token", "error", err)
		return nil, err
	}

	l.Info("user_registered", "role", user.Role)
	return &AuthResult{
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
		Message:  "Registration successful",
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "reason", "invalid username or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "error", err)
		return nil, err
	}

	token, err := s.Codec.CreateToken(user.Username, user.Role, time.Now())
	if err != nil {
		l.Error("login_error", "reason", "cannot create token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "role", user.Role)
	return &AuthResult{
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
		Message:  "Login successful",
	}, nil
}

// LogOut blacklists the token so that verification rejects it before its
// natural expiry. The signature is deliberately not checked here: revoking
// a forged token is harmless, and the token only needs to parse. Logging
// out twice with the same token is not an error.
func (s *AuthService) LogOut(ctx context.Context, token string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := s.Codec.UnverifiedClaims(token)
	if err != nil {
		l.Warn("logout_failed", "reason", "malformed token")
		return "", err
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.Blacklist.BlacklistToken(ctx, token, claims.Subject, expiresAt); err != nil {
		return "", err
	}

	l.Info("logout_successful", "username", claims.Subject)
	return claims.Subject, nil
}
