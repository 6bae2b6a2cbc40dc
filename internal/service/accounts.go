package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/models"
)

// MaxPasswordBytes is the longest password bcrypt hashes without truncation.
const MaxPasswordBytes = 72

// AccountService manages user records: registration, lookup, update and
// removal. Passwords are hashed before they reach the store.
type AccountService struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewAccountService builds an AccountService over users and hasher.
func NewAccountService(users UserRepository, hasher PasswordHasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password longer than %d bytes", common.ErrValidation, MaxPasswordBytes)
	}
	return nil
}

// Register creates a user. It fails with common.ErrValidation on empty
// credentials or a password over MaxPasswordBytes, and common.ErrConflict when the username is taken.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: username %q is taken", common.ErrConflict, username)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	saved, err := s.users.Save(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		return nil, saveError(username, err)
	}
	return saved, nil
}

// GetByID returns the user with id, or nil without error when there is none.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update overwrites the username and password of an existing user. The
// password is always re-hashed.
func (s *AccountService) Update(ctx context.Context, id, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	existing.Username = username
	existing.PasswordHash = hash
	saved, err := s.users.Save(ctx, existing)
	if err != nil {
		return nil, saveError(username, err)
	}
	return saved, nil
}

// Delete removes the user with id. Deleting an unknown id succeeds.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func saveError(username string, err error) error {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return fmt.Errorf("%w: username %q is taken", common.ErrConflict, username)
	case errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("save user: %w", common.ErrNotFound)
	default:
		return fmt.Errorf("save user: %w", err)
	}
}
