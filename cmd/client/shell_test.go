package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/GophNotes/internal/auth"
	"github.com/atinyakov/GophNotes/internal/client"
	"github.com/atinyakov/GophNotes/internal/repository"
	handler "github.com/atinyakov/GophNotes/internal/server/handler/http"
	"github.com/atinyakov/GophNotes/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newShell(t *testing.T, input string) (*shell, *bytes.Buffer, string) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	issuer := auth.NewJWTIssuer([]byte("shell-test"), time.Hour)
	accounts := service.NewAccountService(users, hasher)
	log := zap.NewNop()
	srv := httptest.NewServer(handler.NewRouter(handler.Handlers{
		Auth:   &handler.AuthHandler{AuthService: service.NewAuthService(accounts, users, hasher, issuer), Log: log},
		Users:  &handler.UserHandler{Accounts: accounts, Log: log},
		Notes:  &handler.NoteHandler{Notes: service.NewNoteService(repository.NewMemoryNoteRepository()), Log: log},
		Health: &handler.HealthHandler{Store: users, Log: log},
	}, issuer, log))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	return &shell{
		api:         client.New(srv.URL, srv.Client()),
		session:     &client.Session{BaseURL: srv.URL},
		sessionPath: sessionPath,
		prompt:      client.NewPrompter(strings.NewReader(input), &out),
		out:         &out,
	}, &out, sessionPath
}

func TestShell_Session(t *testing.T) {
	input := strings.Join([]string{
		"list",
		"signup", "alice", "pw1",
		"login", "alice", "pw1",
		"whoami",
		"create", "Groceries", "milk and eggs",
		"search milk",
		"search nothing-here",
		"share", // usage
		"bogus",
		"exit",
	}, "\n") + "\n"

	sh, out, sessionPath := newShell(t, input)
	sh.run(context.Background())

	got := out.String()
	for _, want := range []string{
		"Error: server returned 401",
		"Account created",
		"Logged in as alice",
		"Title: Groceries",
		"No notes",
		"Usage: share <id> <user>",
		"Unknown command",
		"Bye",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}

	saved, err := client.LoadSession(sessionPath)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if saved.Username != "alice" || saved.Token == "" {
		t.Errorf("session not persisted: %+v", saved)
	}
}

func TestShell_ExpiredTokenIsForgotten(t *testing.T) {
	sh, out, sessionPath := newShell(t, "list\nwhoami\n")
	sh.session.Username = "alice"
	sh.session.Token = "stale"
	sh.api.SetToken("stale")

	sh.run(context.Background())

	if !strings.Contains(out.String(), "Session expired") {
		t.Errorf("expected expiry message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("expected whoami to report logged out, got %q", out.String())
	}
	saved, err := client.LoadSession(sessionPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Token != "" {
		t.Errorf("stale token kept in session file")
	}
}

func TestRawArgument(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{line: "search", want: ""},
		{line: "search milk", want: "milk"},
		{line: "search   a  b", want: "a  b"},
		{line: `search "a  b"`, want: "a  b"},
		{line: `search " lead"`, want: " lead"},
		{line: "search\tx", want: "x"},
	}
	for _, tt := range tests {
		if got := rawArgument(tt.line); got != tt.want {
			t.Errorf("rawArgument(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestShell_SearchKeepsSpacing(t *testing.T) {
	input := strings.Join([]string{
		"signup", "alice", "pw1",
		"login", "alice", "pw1",
		"create", "Wide", "a  b",
		"create", "Narrow", "a b",
		`search "a  b"`,
		"exit",
	}, "\n") + "\n"

	sh, out, _ := newShell(t, input)
	sh.run(context.Background())

	got := out.String()
	results := got[strings.LastIndex(got, "Note created"):]
	if !strings.Contains(results, "Title: Wide") {
		t.Errorf("expected the double-spaced note, got\n%s", results)
	}
	if strings.Contains(results, "Title: Narrow") {
		t.Errorf("single-spaced note matched a double-spaced query\n%s", results)
	}
}
