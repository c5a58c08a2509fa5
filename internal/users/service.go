package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/shared/telemetry"
)

const minPasswordLen = 8

type Service struct {
	Repo     Repo
	hashCost int
	newID    func() string
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, hashCost: bcrypt.DefaultCost, newID: uuid.NewString}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return User{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:              s.newID(),
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		ProfileImageURL: strings.TrimSpace(in.ProfileImageURL),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID})
	return s.Repo.GetByID(ctx, user.ID)
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, in LoginInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if user.PasswordHash == "" {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if _, err := uuid.Parse(strings.TrimSpace(userID)); err != nil {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// ResolveUser reports whether userID belongs to an existing account.
func (s *Service) ResolveUser(ctx context.Context, userID string) (bool, error) {
	_, err := s.GetByID(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// UpsertFromAuth finds or creates the account for an externally verified
// identity. Accounts created this way have no password and can only sign in
// through the provider.
func (s *Service) UpsertFromAuth(ctx context.Context, email, name, pictureURL string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ProfileImageURL == "" && pictureURL != "" {
			existing.ProfileImageURL = pictureURL
			if err := s.Repo.UpdateProfile(ctx, existing); err != nil {
				return User{}, err
			}
		}
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return User{}, err
	}

	user := User{ID: s.newID(), Name: name, Email: email, ProfileImageURL: pictureURL}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return s.Repo.GetByEmail(ctx, email)
		}
		return User{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID, "provider": "google"})
	return s.Repo.GetByID(ctx, user.ID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
