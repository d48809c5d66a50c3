package service

import (
	"context"
	"errors"
	"time"

	"cleardoor_backend/internal/auth/password"
	"cleardoor_backend/internal/auth/repository"
	"cleardoor_backend/platform/config"
	"cleardoor_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserDisabled = errors.New("user account disabled")

const accessTokenType = "access"

// UserStore is the persistence surface the service needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (repository.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
	ListActiveByRole(ctx context.Context, role string) ([]repository.User, error)
}

type Service struct {
	repo UserStore
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo UserStore, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies the credentials and returns a signed access token together
// with the user record. Credential failures are indistinguishable to the
// caller whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, plainPassword string) (string, repository.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.AuthEvent("login", username, false, "unknown user")
		return "", repository.User{}, ErrInvalidCredentials
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", username, false, "bad password")
		return "", repository.User{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.AuthEvent("login", username, false, "disabled")
		return "", repository.User{}, ErrUserDisabled
	}

	token, err := s.signJWT(user.ID, []string{user.Role})
	if err != nil {
		return "", repository.User{}, err
	}

	s.log.AuthEvent("login", username, true, "")
	return token, user, nil
}

// GetMe returns the profile of the authenticated user.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ActiveAdmins returns all active admin users.
func (s *Service) ActiveAdmins(ctx context.Context) ([]repository.User, error) {
	return s.repo.ListActiveByRole(ctx, repository.RoleAdmin)
}

// UserByID returns a user by ID for cross-module lookups.
func (s *Service) UserByID(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) signJWT(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
