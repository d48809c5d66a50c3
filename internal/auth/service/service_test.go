package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleardoor_backend/internal/auth/password"
	"cleardoor_backend/internal/auth/repository"
	"cleardoor_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	users map[string]repository.User
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (repository.User, error) {
	user, ok := f.users[username]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) ListActiveByRole(_ context.Context, role string) ([]repository.User, error) {
	var out []repository.User
	for _, user := range f.users {
		if user.Role == role && user.IsActive {
			out = append(out, user)
		}
	}
	return out, nil
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }

func newTestService(t *testing.T, users ...repository.User) *Service {
	t.Helper()
	store := &fakeUserStore{users: make(map[string]repository.User)}
	for _, user := range users {
		store.users[user.Username] = user
	}
	return New(store, testConfig{}, logger.New("test"))
}

func testUser(t *testing.T, username, plain, role string, active bool) repository.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return repository.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		IsActive:     active,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "ravi", "correct-horse", "engineer", true)
	svc := newTestService(t, user)

	token, got, err := svc.Login(context.Background(), "ravi", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}

	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("expected valid token, got err=%v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["type"] != "access" {
		t.Fatalf("expected access token type, got %v", claims["type"])
	}
	if claims["sub"] != user.ID.String() {
		t.Fatalf("expected sub %s, got %v", user.ID, claims["sub"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, testUser(t, "ravi", "correct-horse", "engineer", true))

	if _, _, err := svc.Login(context.Background(), "ravi", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t)

	if _, _, err := svc.Login(context.Background(), "ghost", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc := newTestService(t, testUser(t, "ravi", "correct-horse", "engineer", false))

	if _, _, err := svc.Login(context.Background(), "ravi", "correct-horse"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}
