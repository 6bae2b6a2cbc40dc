package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSession_FileNotExist(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if s.Token != "" || s.Username != "" {
		t.Errorf("expected empty session, got %+v", s)
	}
}

func TestSession_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	want := &Session{BaseURL: "http://localhost:8080", Username: "alice", Token: "tok"}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session permissions = %o; want 600", perm)
	}

	got, err := LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if *got != *want {
		t.Errorf("loaded %+v; want %+v", got, want)
	}

	got.Clear()
	if got.Token != "" || got.Username != "" || got.BaseURL != want.BaseURL {
		t.Errorf("Clear left %+v", got)
	}
}

func TestLoadSession_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSession(path); err == nil {
		t.Error("expected parse error")
	}
}
