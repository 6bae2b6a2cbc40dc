package service

import (
	"context"
	"errors"
	"strings"

	"github.com/atinyakov/GophNotes/internal/models"
)

// plainHasher prefixes the password instead of hashing it.
type plainHasher struct {
	hashErr error
}

func (h *plainHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *plainHasher) Compare(digest, password string) error {
	if digest != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type stubIssuer struct {
	err error
}

func (s *stubIssuer) Issue(username string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + username, nil
}

// failingUsers returns fixed errors from every method.
type failingUsers struct {
	findErr error
	saveErr error
	found   *models.User
}

func (f *failingUsers) FindByID(context.Context, string) (*models.User, error) {
	return f.found, f.findErr
}

func (f *failingUsers) FindByUsername(context.Context, string) (*models.User, error) {
	return f.found, f.findErr
}

func (f *failingUsers) Save(_ context.Context, u *models.User) (*models.User, error) {
	return u, f.saveErr
}

func (f *failingUsers) DeleteByID(context.Context, string) error {
	return f.saveErr
}

// recordingNotes records writes and returns configured errors.
type recordingNotes struct {
	findErr   error
	appendErr error
	writes    int
	all       []models.Note
}

func (r *recordingNotes) FindByID(_ context.Context, id string) (*models.Note, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return &models.Note{ID: id}, nil
}

func (r *recordingNotes) FindAll(context.Context) ([]models.Note, error) {
	return r.all, r.findErr
}

func (r *recordingNotes) SearchByContent(_ context.Context, q string) ([]models.Note, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.Note
	for _, n := range r.all {
		if strings.Contains(n.Content, q) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *recordingNotes) Save(_ context.Context, n *models.Note) (*models.Note, error) {
	r.writes++
	return n, nil
}

func (r *recordingNotes) AppendSharedWith(context.Context, string, string) error {
	r.writes++
	return r.appendErr
}

func (r *recordingNotes) DeleteByID(context.Context, string) error {
	r.writes++
	return nil
}
