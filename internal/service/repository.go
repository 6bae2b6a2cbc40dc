// Package service provides the account, authentication and note business
// logic, delegating persistence to repository interfaces and credentials
// to hashing and token primitives.
package service

import (
	"context"

	"github.com/atinyakov/GophNotes/internal/models"
)

// Repository is the capability set shared by every entity store.
type Repository[T any] interface {
	// FindByID returns the entity or common.ErrNotFound.
	FindByID(ctx context.Context, id string) (*T, error)
	// Save inserts the entity when its ID is empty, assigning a new ID,
	// and replaces the stored document otherwise. Replacing an unknown ID
	// yields common.ErrNotFound.
	Save(ctx context.Context, entity *T) (*T, error)
	// DeleteByID removes the entity; unknown IDs are not an error.
	DeleteByID(ctx context.Context, id string) error
}

// UserRepository persists users. Save reports common.ErrAlreadyExists when
// the username is taken by another user.
type UserRepository interface {
	Repository[models.User]
	// FindByUsername returns the user or common.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// NoteRepository persists notes.
type NoteRepository interface {
	Repository[models.Note]
	// FindAll returns every note in store iteration order.
	FindAll(ctx context.Context) ([]models.Note, error)
	// SearchByContent returns notes whose content contains query.
	SearchByContent(ctx context.Context, query string) ([]models.Note, error)
	// AppendSharedWith atomically appends target to the note's share list,
	// or returns common.ErrNotFound.
	AppendSharedWith(ctx context.Context, id, target string) error
}

// PasswordHasher is a one-way password hashing primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches digest.
	Compare(digest, password string) error
}

// TokenIssuer signs bearer tokens bound to a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}
