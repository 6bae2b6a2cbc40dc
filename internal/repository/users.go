package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/google/uuid"
)

// PostgresUserRepository stores users in PostgreSQL. Username uniqueness is
// enforced by the table's UNIQUE constraint.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository over db.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// FindByID returns the user with id or common.ErrNotFound.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, username, password_hash FROM users WHERE id = $1`, id)
}

// FindByUsername returns the user named username or common.ErrNotFound.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, `SELECT id, username, password_hash FROM users WHERE username = $1`, username)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Save inserts user when its ID is empty and replaces it otherwise.
// A taken username yields common.ErrAlreadyExists.
func (r *PostgresUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	saved := *user
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`,
			saved.ID, saved.Username, saved.PasswordHash,
		)
		if err != nil {
			return nil, userWriteError("insert user", err)
		}
		return &saved, nil
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET username = $2, password_hash = $3 WHERE id = $1`,
		saved.ID, saved.Username, saved.PasswordHash,
	)
	if err != nil {
		return nil, userWriteError("update user", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteByID removes the user with id. Unknown ids are ignored.
func (r *PostgresUserRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// PingContext checks the database connection.
func (r *PostgresUserRepository) PingContext(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func userWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, common.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectRow converts a zero-row write into common.ErrNotFound.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
