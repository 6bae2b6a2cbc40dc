package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/db"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/google/uuid"
)

// SQLiteNoteRepository stores notes in SQLite with the share list encoded
// as a JSON array.
type SQLiteNoteRepository struct {
	db *db.SQLite
}

// NewSQLiteNoteRepository creates a SQLiteNoteRepository over s.
func NewSQLiteNoteRepository(s *db.SQLite) *SQLiteNoteRepository {
	return &SQLiteNoteRepository{db: s}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var (
		n      models.Note
		shared string
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &shared); err != nil {
		return models.Note{}, err
	}
	if err := json.Unmarshal([]byte(shared), &n.SharedWith); err != nil {
		return models.Note{}, fmt.Errorf("decode shared_with: %w", err)
	}
	return n, nil
}

// FindByID returns the note with id or common.ErrNotFound.
func (r *SQLiteNoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	row := r.db.Reader.QueryRowContext(ctx,
		`SELECT id, title, content, shared_with FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &n, nil
}

// FindAll returns every note in insertion order.
func (r *SQLiteNoteRepository) FindAll(ctx context.Context) ([]models.Note, error) {
	return r.query(ctx, `SELECT id, title, content, shared_with FROM notes ORDER BY rowid`)
}

// SearchByContent returns notes whose content contains query, case-sensitively.
func (r *SQLiteNoteRepository) SearchByContent(ctx context.Context, query string) ([]models.Note, error) {
	return r.query(ctx,
		`SELECT id, title, content, shared_with FROM notes WHERE instr(content, ?) > 0 ORDER BY rowid`,
		query,
	)
}

func (r *SQLiteNoteRepository) query(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
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
func (r *SQLiteNoteRepository) Save(ctx context.Context, note *models.Note) (*models.Note, error) {
	saved := *note
	if saved.SharedWith == nil {
		saved.SharedWith = []string{}
	}
	shared, err := json.Marshal(saved.SharedWith)
	if err != nil {
		return nil, fmt.Errorf("encode shared_with: %w", err)
	}

	if saved.ID == "" {
		saved.ID = uuid.NewString()
		const query = `INSERT INTO notes (id, title, content, shared_with) VALUES (?, ?, ?, ?)`
		if _, err := r.db.Writer.ExecContext(ctx, query, saved.ID, saved.Title, saved.Content, string(shared)); err != nil {
			return nil, fmt.Errorf("insert note: %w", err)
		}
		return &saved, nil
	}

	const query = `UPDATE notes SET title = ?, content = ?, shared_with = ? WHERE id = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, saved.Title, saved.Content, string(shared), saved.ID)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}
	return &saved, nil
}

// AppendSharedWith appends target to the stored JSON array in one statement.
func (r *SQLiteNoteRepository) AppendSharedWith(ctx context.Context, id, target string) error {
	const query = `UPDATE notes SET shared_with = json_insert(shared_with, '$[#]', ?) WHERE id = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, target, id)
	if err != nil {
		return fmt.Errorf("share note: %w", err)
	}
	return expectRow(res)
}

// DeleteByID removes the note with id. Unknown ids are ignored.
func (r *SQLiteNoteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.Writer.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
