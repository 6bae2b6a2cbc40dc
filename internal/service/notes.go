package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/models"
)

// NoteService implements note CRUD, sharing and content search.
type NoteService struct {
	notes NoteRepository
}

// NewNoteService returns a NoteService backed by notes.
func NewNoteService(notes NoteRepository) *NoteService {
	return &NoteService{notes: notes}
}

// List returns every note. The result is never nil.
func (s *NoteService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.notes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

// GetByID returns the note or an error wrapping common.ErrNotFound.
func (s *NoteService) GetByID(ctx context.Context, id string) (*models.Note, error) {
	n, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, noteError(id, err)
	}
	return n, nil
}

// Create stores a new note with an empty share list.
func (s *NoteService) Create(ctx context.Context, title, content string) (*models.Note, error) {
	n, err := s.notes.Save(ctx, &models.Note{Title: title, Content: content, SharedWith: []string{}})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Update replaces the title and content of an existing note. SharedWith
// is left as stored.
func (s *NoteService) Update(ctx context.Context, id, title, content string) (*models.Note, error) {
	n, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, noteError(id, err)
	}

	n.Title = title
	n.Content = content
	saved, err := s.notes.Save(ctx, n)
	if err != nil {
		return nil, noteError(id, err)
	}
	return saved, nil
}

// Delete removes the note with id without checking that it exists.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.notes.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// Share appends target to the note's share list. Repeated shares are kept.
func (s *NoteService) Share(ctx context.Context, id, target string) error {
	if target == "" {
		return fmt.Errorf("%w: share target is required", common.ErrValidation)
	}
	if err := s.notes.AppendSharedWith(ctx, id, target); err != nil {
		return noteError(id, err)
	}
	return nil
}

// Search returns the notes whose content contains query.
func (s *NoteService) Search(ctx context.Context, query string) ([]models.Note, error) {
	notes, err := s.notes.SearchByContent(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func noteError(id string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("note %s: %w", id, common.ErrNotFound)
	}
	return fmt.Errorf("note %s: %w", id, err)
}
