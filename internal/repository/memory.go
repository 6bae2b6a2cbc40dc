package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/google/uuid"
)

// memoryCollection is an insertion-ordered, lock-protected document map.
// Values are stored and returned by copy.
type memoryCollection[T any] struct {
	mu    sync.RWMutex
	docs  map[string]T
	order []string
	clone func(T) T
}

func newMemoryCollection[T any](clone func(T) T) *memoryCollection[T] {
	return &memoryCollection[T]{docs: make(map[string]T), clone: clone}
}

func (c *memoryCollection[T]) find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return doc, false
	}
	return c.clone(doc), true
}

func (c *memoryCollection[T]) filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		if doc := c.docs[id]; keep(doc) {
			out = append(out, c.clone(doc))
		}
	}
	return out
}

// insert stores doc under id unless conflicts reports a clash with an
// existing document.
func (c *memoryCollection[T]) insert(id string, doc T, conflicts func(existing T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.docs {
		if conflicts(existing) {
			return common.ErrAlreadyExists
		}
	}
	c.docs[id] = c.clone(doc)
	c.order = append(c.order, id)
	return nil
}

// replace overwrites the document under id. conflicts is checked against
// every other document.
func (c *memoryCollection[T]) replace(id string, doc T, conflicts func(existing T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return common.ErrNotFound
	}
	for otherID, existing := range c.docs {
		if otherID != id && conflicts(existing) {
			return common.ErrAlreadyExists
		}
	}
	c.docs[id] = c.clone(doc)
	return nil
}

func (c *memoryCollection[T]) modify(id string, fn func(doc *T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(&doc)
	c.docs[id] = doc
	return nil
}

func (c *memoryCollection[T]) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
}

func noConflict[T any](T) bool { return false }

// MemoryUserRepository is a process-local user store.
type MemoryUserRepository struct {
	users *memoryCollection[models.User]
}

// NewMemoryUserRepository returns an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: newMemoryCollection(func(u models.User) models.User { return u }),
	}
}

// FindByID returns the user with id or common.ErrNotFound.
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users.find(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

// FindByUsername returns the user named username or common.ErrNotFound.
func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	found := r.users.filter(func(u models.User) bool { return u.Username == username })
	if len(found) == 0 {
		return nil, common.ErrNotFound
	}
	return &found[0], nil
}

// Save inserts user when its ID is empty and replaces it otherwise. The
// username check and the write happen under one lock.
func (r *MemoryUserRepository) Save(_ context.Context, user *models.User) (*models.User, error) {
	saved := *user
	sameName := func(existing models.User) bool { return existing.Username == saved.Username }

	if saved.ID == "" {
		saved.ID = uuid.NewString()
		if err := r.users.insert(saved.ID, saved, sameName); err != nil {
			return nil, err
		}
		return &saved, nil
	}
	if err := r.users.replace(saved.ID, saved, sameName); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteByID removes the user with id. Unknown ids are ignored.
func (r *MemoryUserRepository) DeleteByID(_ context.Context, id string) error {
	r.users.remove(id)
	return nil
}

// PingContext always succeeds.
func (r *MemoryUserRepository) PingContext(context.Context) error {
	return nil
}

// MemoryNoteRepository is a process-local note store.
type MemoryNoteRepository struct {
	notes *memoryCollection[models.Note]
}

// NewMemoryNoteRepository returns an empty MemoryNoteRepository.
func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{
		notes: newMemoryCollection(func(n models.Note) models.Note {
			n.SharedWith = slices.Clone(n.SharedWith)
			if n.SharedWith == nil {
				n.SharedWith = []string{}
			}
			return n
		}),
	}
}

// FindByID returns the note with id or common.ErrNotFound.
func (r *MemoryNoteRepository) FindByID(_ context.Context, id string) (*models.Note, error) {
	n, ok := r.notes.find(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	return &n, nil
}

// FindAll returns every note in insertion order.
func (r *MemoryNoteRepository) FindAll(context.Context) ([]models.Note, error) {
	return r.notes.filter(func(models.Note) bool { return true }), nil
}

// SearchByContent returns notes whose content contains query.
func (r *MemoryNoteRepository) SearchByContent(_ context.Context, query string) ([]models.Note, error) {
	return r.notes.filter(func(n models.Note) bool { return strings.Contains(n.Content, query) }), nil
}

// Save inserts note when its ID is empty and replaces it otherwise.
func (r *MemoryNoteRepository) Save(_ context.Context, note *models.Note) (*models.Note, error) {
	saved := *note
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		if err := r.notes.insert(saved.ID, saved, noConflict[models.Note]); err != nil {
			return nil, err
		}
	} else if err := r.notes.replace(saved.ID, saved, noConflict[models.Note]); err != nil {
		return nil, err
	}

	stored := r.notes.clone(saved)
	return &stored, nil
}

// AppendSharedWith appends target under the collection lock.
func (r *MemoryNoteRepository) AppendSharedWith(_ context.Context, id, target string) error {
	return r.notes.modify(id, func(n *models.Note) {
		n.SharedWith = append(n.SharedWith, target)
	})
}

// DeleteByID removes the note with id. Unknown ids are ignored.
func (r *MemoryNoteRepository) DeleteByID(_ context.Context, id string) error {
	r.notes.remove(id)
	return nil
}
