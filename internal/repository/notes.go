package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresNoteRepository stores notes in PostgreSQL with the share list in
// a TEXT[] column.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a PostgresNoteRepository over db.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// FindByID returns the note with id or common.ErrNotFound.
func (r *PostgresNoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, content, shared_with FROM notes WHERE id = $1`, id,
	).Scan(&n.ID, &n.Title, &n.Content, (*pq.StringArray)(&n.SharedWith))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &n, nil
}

// FindAll returns every note in insertion order.
func (r *PostgresNoteRepository) FindAll(ctx context.Context) ([]models.Note, error) {
	return r.query(ctx, `SELECT id, title, content, shared_with FROM notes ORDER BY seq`)
}

// SearchByContent returns notes whose content contains query, case-sensitively.
func (r *PostgresNoteRepository) SearchByContent(ctx context.Context, query string) ([]models.Note, error) {
	return r.query(ctx,
		`SELECT id, title, content, shared_with FROM notes WHERE strpos(content, $1) > 0 ORDER BY seq`,
		query,
	)
}

func (r *PostgresNoteRepository) query(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, (*pq.StringArray)(&n.SharedWith)); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// Save inserts note when its ID is empty and replaces the whole document
// otherwise.
func (r *PostgresNoteRepository) Save(ctx context.Context, note *models.Note) (*models.Note, error) {
	saved := *note
	if saved.SharedWith == nil {
		saved.SharedWith = []string{}
	}

	if saved.ID == "" {
		saved.ID = uuid.NewString()
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO notes (id, title, content, shared_with) VALUES ($1, $2, $3, $4)`,
			saved.ID, saved.Title, saved.Content, pq.StringArray(saved.SharedWith),
		)
		if err != nil {
			return nil, fmt.Errorf("insert note: %w", err)
		}
		return &saved, nil
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE notes SET title = $2, content = $3, shared_with = $4 WHERE id = $1`,
		saved.ID, saved.Title, saved.Content, pq.StringArray(saved.SharedWith),
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}
	return &saved, nil
}

// AppendSharedWith pushes target onto the note's share list in a single
// statement, so concurrent shares never overwrite each other.
func (r *PostgresNoteRepository) AppendSharedWith(ctx context.Context, id, target string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notes SET shared_with = array_append(shared_with, $2) WHERE id = $1`,
		id, target,
	)
	if err != nil {
		return fmt.Errorf("share note: %w", err)
	}
	return expectRow(res)
}

// DeleteByID removes the note with id. Unknown ids are ignored.
func (r *PostgresNoteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
