package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (string, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return "", errors.New("bad token")
}

func TestBearerAuth(t *testing.T) {
	verifier := fakeVerifier{"good": "alice"}

	tests := []struct {
		name       string
		header     string
		wantCalled bool
		wantCode   int
		wantUser   string
	}{
		{name: "no header", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", wantCode: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantCode: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", wantCalled: true, wantCode: http.StatusOK, wantUser: "alice"},
		{name: "scheme case-insensitive", header: "bearer good", wantCalled: true, wantCode: http.StatusOK, wantUser: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := BearerAuth(verifier)(dummy)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(rec, req)

			if dummy.called != tt.wantCalled {
				t.Fatalf("expected called=%v, got %v", tt.wantCalled, dummy.called)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCalled {
				if got := GetUsernameFromContext(dummy.ctx); got != tt.wantUser {
					t.Errorf("expected user %q, got %q", tt.wantUser, got)
				}
			} else if rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header on 401")
			}
		})
	}
}

func TestGetUsernameFromContext_Empty(t *testing.T) {
	if got := GetUsernameFromContext(context.Background()); got != "" {
		t.Errorf("expected empty username, got %q", got)
	}
}
