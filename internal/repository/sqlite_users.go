package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/db"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/google/uuid"
)

// SQLiteUserRepository stores users in SQLite. Reads go to the reader pool,
// writes to the single writer connection.
type SQLiteUserRepository struct {
	db *db.SQLite
}

// NewSQLiteUserRepository creates a SQLiteUserRepository over s.
func NewSQLiteUserRepository(s *db.SQLite) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: s}
}

// FindByID returns the user with id or common.ErrNotFound.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, username, password_hash FROM users WHERE id = ?`, id)
}

// FindByUsername returns the user named username or common.ErrNotFound.
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, username, password_hash FROM users WHERE username = ?`, username)
}

func (r *SQLiteUserRepository) findOne(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := r.db.Reader.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Save inserts user when its ID is empty and replaces it otherwise.
func (r *SQLiteUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	saved := *user
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		const query = `INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)`
		if _, err := r.db.Writer.ExecContext(ctx, query, saved.ID, saved.Username, saved.PasswordHash); err != nil {
			return nil, userWriteError("insert user", err)
		}
		return &saved, nil
	}

	const query = `UPDATE users SET username = ?, password_hash = ? WHERE id = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, saved.Username, saved.PasswordHash, saved.ID)
	if err != nil {
		return nil, userWriteError("update user", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteByID removes the user with id. Unknown ids are ignored.
func (r *SQLiteUserRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.Writer.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// PingContext checks the database connection.
func (r *SQLiteUserRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
