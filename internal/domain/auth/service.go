package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type tokenIssuer interface {
	GenerateToken(userID int64, username string) (string, error)
}

type Service struct {
	users Repository
	jwt   tokenIssuer
}

func NewService(users Repository, jwt tokenIssuer) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a user account and issues a session token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. Lookup and password
// failures are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*User, error) {
	return s.users.GetByID(ctx, userID)
}
