package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/models"
)

// Registrar creates user accounts.
type Registrar interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
}

// AuthService implements signup and password login.
type AuthService struct {
	accounts Registrar
	users    UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewAuthService wires AuthService. Signup is delegated to accounts.
func NewAuthService(accounts Registrar, users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{accounts: accounts, users: users, hasher: hasher, tokens: tokens}
}

// Signup registers a new account under the register rules.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	_, err := s.accounts.Register(ctx, username, password)
	return err
}

// Login checks the credentials and returns a signed token bound to
// username. Unknown users and wrong passwords both yield
// common.ErrAuthentication.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.ErrAuthentication
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrAuthentication
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", common.ErrAuthentication
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
