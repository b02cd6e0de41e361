package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/auth"
	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/repository"
)

// LoginResult is returned to a client that signed in.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// AuthService manages the single owner account and its session tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// EnsureOwner creates the owner account, or resets its password, from
// configuration. An empty password leaves the stored account untouched.
func (s *AuthService) EnsureOwner(ctx context.Context, username, password string) error {
	if password == "" {
		s.logger.Warn("AUTH_PASSWORD not set: owner account not seeded", zap.String("username", username))
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	s.logger.Info("owner account ready", zap.String("username", username))
	return nil
}

// Login checks credentials and issues a session token.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, &domain.ValidationError{Field: "username and password", Reason: "are required"}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expires, User: user}, nil
}

// Verify validates a bearer token.
func (s *AuthService) Verify(token string) (*auth.Claims, error) {
	return s.tokens.Validate(token)
}
