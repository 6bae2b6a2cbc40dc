package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/repository"
	"pgregory.net/rapid"
)

func usernameGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z][a-z0-9_]{0,15}`)
}

func passwordGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9!@#]{1,24}`)
}

func contentGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(""),
		rapid.StringMatching(`[a-z ]{1,80}`),
	)
}

func testRegister_RejectsEmpty_Properties(t *rapid.T) {
	svc := NewAccountService(repository.NewMemoryUserRepository(), &plainHasher{})

	username := usernameGenerator().Draw(t, "username")
	password := passwordGenerator().Draw(t, "password")
	switch rapid.IntRange(0, 2).Draw(t, "blank") {
	case 0:
		username = ""
	case 1:
		password = ""
	default:
		username, password = "", ""
	}

	_, err := svc.Register(context.Background(), username, password)
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error for %q/%q, got %v", username, password, err)
	}
}

func TestRegister_RejectsEmpty_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testRegister_RejectsEmpty_Properties)
}

func testRegister_DuplicateConflicts_Properties(t *rapid.T) {
	svc := NewAccountService(repository.NewMemoryUserRepository(), &plainHasher{})
	ctx := context.Background()

	username := usernameGenerator().Draw(t, "username")
	first := passwordGenerator().Draw(t, "first")
	second := passwordGenerator().Draw(t, "second")

	if _, err := svc.Register(ctx, username, first); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, username, second); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegister_DuplicateConflicts_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testRegister_DuplicateConflicts_Properties)
}

func testNote_CreateThenGet_Properties(t *rapid.T) {
	svc := NewNoteService(repository.NewMemoryNoteRepository())
	ctx := context.Background()

	title := rapid.String().Draw(t, "title")
	content := contentGenerator().Draw(t, "content")

	created, err := svc.Create(ctx, title, content)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("note ID should not be empty")
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != title || got.Content != content {
		t.Fatalf("got %q/%q, want %q/%q", got.Title, got.Content, title, content)
	}
}

func TestNote_CreateThenGet_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testNote_CreateThenGet_Properties)
}

func testNote_UpdateUnknown_Properties(t *rapid.T) {
	svc := NewNoteService(repository.NewMemoryNoteRepository())
	ctx := context.Background()

	n := rapid.IntRange(0, 5).Draw(t, "existing")
	for i := 0; i < n; i++ {
		if _, err := svc.Create(ctx, "t", contentGenerator().Draw(t, "content")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	before, _ := svc.List(ctx)

	unknown := rapid.StringMatching(`[a-z0-9]{8,16}`).Draw(t, "unknownID")
	if _, err := svc.Update(ctx, unknown, "x", "y"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	after, _ := svc.List(ctx)
	if len(after) != len(before) {
		t.Fatalf("store changed: %d notes before, %d after", len(before), len(after))
	}
	for i := range before {
		if before[i].Title != after[i].Title || before[i].Content != after[i].Content {
			t.Fatalf("note %s changed", before[i].ID)
		}
	}
}

func TestNote_UpdateUnknown_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testNote_UpdateUnknown_Properties)
}

func testNote_ShareKeepsRepeats_Properties(t *rapid.T) {
	svc := NewNoteService(repository.NewMemoryNoteRepository())
	ctx := context.Background()

	note, err := svc.Create(ctx, "t", "c")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	target := usernameGenerator().Draw(t, "target")
	times := rapid.IntRange(2, 6).Draw(t, "times")
	for i := 0; i < times; i++ {
		if err := svc.Share(ctx, note.ID, target); err != nil {
			t.Fatalf("Share failed: %v", err)
		}
	}

	got, _ := svc.GetByID(ctx, note.ID)
	count := 0
	for _, s := range got.SharedWith {
		if s == target {
			count++
		}
	}
	if count != times {
		t.Fatalf("target shared %d times, found %d", times, count)
	}
}

func TestNote_ShareKeepsRepeats_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testNote_ShareKeepsRepeats_Properties)
}

func testNote_SearchMatchesContains_Properties(t *rapid.T) {
	svc := NewNoteService(repository.NewMemoryNoteRepository())
	ctx := context.Background()

	contents := rapid.SliceOfN(contentGenerator(), 0, 8).Draw(t, "contents")
	for _, c := range contents {
		if _, err := svc.Create(ctx, "t", c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	query := rapid.StringMatching(`[a-z]{1,3}`).Draw(t, "query")

	found, err := svc.Search(ctx, query)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := 0
	for _, c := range contents {
		if strings.Contains(c, query) {
			want++
		}
	}
	if len(found) != want {
		t.Fatalf("query %q: got %d notes, want %d", query, len(found), want)
	}
	for _, n := range found {
		if !strings.Contains(n.Content, query) {
			t.Fatalf("note %q does not contain %q", n.Content, query)
		}
	}
}

func TestNote_SearchMatchesContains_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testNote_SearchMatchesContains_Properties)
}

func testNote_DeleteThenGet_Properties(t *rapid.T) {
	svc := NewNoteService(repository.NewMemoryNoteRepository())
	ctx := context.Background()

	note, err := svc.Create(ctx, rapid.String().Draw(t, "title"), contentGenerator().Draw(t, "content"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, note.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestNote_DeleteThenGet_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testNote_DeleteThenGet_Properties)
}
