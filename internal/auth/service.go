// Package auth implements sign up, login and logout as transitions between
// Session values, plus password hashing and session tokens.
package auth

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/storage"
)

// Store is the subset of storage.Provider the auth service needs.
type Store interface {
	FindUserByEmail(email string) (models.User, error)
	FindUserByID(id string) (models.User, error)
	CreateUser(name, email, passwordHash string) (string, error)
	ListHabits(userID string) ([]models.Habit, error)
	AddHabit(userID string, habit models.Habit) (string, error)
	DeleteUser(userID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// FindUserByCredentials returns the user whose email and password match.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *Service) FindUserByCredentials(email, password string) (models.User, error) {
	user, err := s.store.FindUserByEmail(strings.TrimSpace(email))
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return models.User{}, errors.ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return models.User{}, errors.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates email and password. On failure the returned session is Anonymous.
func (s *Service) Login(email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AnonymousSession(), errors.Validation("email and password are required")
	}

	user, err := s.FindUserByCredentials(email, password)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			logger.Debug("Login rejected", "email", strings.TrimSpace(email))
		}
		return AnonymousSession(), err
	}

	logger.Info("User logged in", "user_id", user.ID)
	return AuthenticatedSession(user), nil
}

// Signup creates an account, seeds the default habits and returns an Authenticated session.
func (s *Service) Signup(name, email, password, confirm string) (Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || strings.TrimSpace(password) == "" || strings.TrimSpace(confirm) == "" {
		return AnonymousSession(), errors.Validation("all fields are required")
	}
	if password != confirm {
		return AnonymousSession(), errors.Validation("passwords do not match")
	}
	// bcrypt only hashes the first 72 bytes and rejects anything longer.
	if len(password) > MaxPasswordBytes {
		return AnonymousSession(), errors.Validationf("password must be at most %d bytes", MaxPasswordBytes)
	}

	if _, err := s.store.FindUserByEmail(email); err == nil {
		return AnonymousSession(), errors.ErrUserExists
	} else if !stderrors.Is(err, storage.ErrNotFound) {
		return AnonymousSession(), fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return AnonymousSession(), err
	}

	id, err := s.store.CreateUser(name, email, hash)
	if err != nil {
		// Lost a race with a concurrent signup; the unique index caught it.
		if stderrors.Is(err, storage.ErrDuplicate) {
			return AnonymousSession(), errors.ErrUserExists
		}
		return AnonymousSession(), fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.SeedDefaults(id); err != nil {
		// Drop the half-created account so the email can sign up again.
		if delErr := s.store.DeleteUser(id); delErr != nil {
			logger.Error("Failed to remove unseeded user", "user_id", id, "error", delErr)
		}
		return AnonymousSession(), err
	}

	user, err := s.store.FindUserByID(id)
	if err != nil {
		return AnonymousSession(), fmt.Errorf("failed to load new user: %w", err)
	}

	logger.Info("User signed up", "user_id", id)
	return AuthenticatedSession(user), nil
}

// Logout always returns an Anonymous session.
func (s *Service) Logout(Session) Session {
	return AnonymousSession()
}

// SeedDefaults adds the default habit set unless the user already has habits.
func (s *Service) SeedDefaults(userID string) (bool, error) {
	existing, err := s.store.ListHabits(userID)
	if err != nil {
		return false, fmt.Errorf("failed to list habits: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, h := range defaultHabits() {
		if _, err := s.store.AddHabit(userID, h); err != nil {
			return false, fmt.Errorf("failed to seed habit %q: %w", h.Title, err)
		}
	}
	logger.Debug("Seeded default habits", "user_id", userID, "count", len(DefaultHabits))
	return true, nil
}

// Resolve loads the user a token subject refers to.
func (s *Service) Resolve(userID string) (Session, error) {
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return AnonymousSession(), errors.ErrInvalidCredentials
		}
		return AnonymousSession(), fmt.Errorf("failed to load user: %w", err)
	}
	return AuthenticatedSession(user), nil
}
