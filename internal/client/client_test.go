package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atinyakov/GophNotes/internal/auth"
	"github.com/atinyakov/GophNotes/internal/common"
	"github.com/atinyakov/GophNotes/internal/repository"
	handler "github.com/atinyakov/GophNotes/internal/server/handler/http"
	"github.com/atinyakov/GophNotes/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	issuer := auth.NewJWTIssuer([]byte("client-test"), time.Hour)
	accounts := service.NewAccountService(users, hasher)
	log := zap.NewNop()

	router := handler.NewRouter(handler.Handlers{
		Auth:   &handler.AuthHandler{AuthService: service.NewAuthService(accounts, users, hasher, issuer), Log: log},
		Users:  &handler.UserHandler{Accounts: accounts, Log: log},
		Notes:  &handler.NoteHandler{Notes: service.NewNoteService(repository.NewMemoryNoteRepository()), Log: log},
		Health: &handler.HealthHandler{Store: users, Log: log},
	}, issuer, log)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AuthAndNotes(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/", srv.Client())
	ctx := context.Background()

	_, err := c.ListNotes(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	require.NoError(t, c.Signup(ctx, "alice", "pw1"))
	assert.ErrorIs(t, c.Signup(ctx, "alice", "pw1"), common.ErrConflict)

	_, err = c.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrAuthentication)

	token, err := c.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, token, c.Token())

	notes, err := c.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	n, err := c.CreateNote(ctx, "T", "hello world")
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)

	found, err := c.SearchNotes(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []Note{*n}, found)

	found, err = c.SearchNotes(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, c.ShareNote(ctx, n.ID, "bob"))
	assert.ErrorIs(t, c.ShareNote(ctx, n.ID, ""), common.ErrValidation)

	updated, err := c.UpdateNote(ctx, n.ID, "T2", "bye")
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)

	got, err := c.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)

	require.NoError(t, c.DeleteNote(ctx, n.ID))
	_, err = c.GetNote(ctx, n.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_Users(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, srv.Client())
	ctx := context.Background()

	u, err := c.RegisterUser(ctx, "carol", "pw")
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)

	_, err = c.Login(ctx, "carol", "pw")
	require.NoError(t, err)

	got, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *got)

	updated, err := c.UpdateUser(ctx, u.ID, "carol", "pw2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, updated.ID)

	require.NoError(t, c.DeleteUser(ctx, u.ID))
	_, err = c.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("oops"))
	}))
	defer srv.Close()

	err := New(srv.URL, nil).DeleteNote(context.Background(), "x")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "oops", apiErr.Message)
	assert.Contains(t, err.Error(), "server returned 502: oops")
}

func TestClient_SetTokenSendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	c.SetToken("saved")
	_, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer saved", gotAuth)
}

func TestClient_UnauthorizedKinds(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL, nil)

	_, err := c.ListNotes(ctx)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	c.SetToken("garbage")
	_, err = c.ListNotes(ctx)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.True(t, IsUnauthorized(err))

	_, err = c.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, common.ErrAuthentication)
	assert.NotErrorIs(t, err, common.ErrInvalidToken)
}
