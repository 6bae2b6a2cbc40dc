// Package client is a Go client for the GophNotes HTTP API together with
// the session file and prompts used by the interactive shell.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atinyakov/GophNotes/internal/common"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the shared error sentinels so callers can
// use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusConflict:
		return common.ErrConflict
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusUnauthorized:
		switch e.Message {
		case "invalid token", "missing bearer token":
			return common.ErrInvalidToken
		}
		return common.ErrAuthentication
	default:
		return nil
	}
}

// Client talks to one server. It is safe for sequential use; the token is
// not guarded for concurrent Login calls.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a Client for baseURL. A nil httpClient uses a default one.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Token returns the bearer token sent with requests.
func (c *Client) Token() string { return c.token }

// SetToken replaces the bearer token, e.g. from a saved session.
func (c *Client) SetToken(token string) { c.token = token }

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signup", credentials{username, password}, nil)
}

// Login obtains a token and keeps it for later requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// RegisterUser creates an account and returns its public record.
func (c *Client) RegisterUser(ctx context.Context, username, password string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/users/register", credentials{username, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces the username and password of a user.
func (c *Client) UpdateUser(ctx context.Context, id, username, password string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), credentials{username, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

// ListNotes returns every note.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	notes := []Note{}
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote fetches a note by id.
func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	var n Note
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote stores a new note.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	var n Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", noteInput{title, content}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote replaces the title and content of a note.
func (c *Client) UpdateNote(ctx context.Context, id, title, content string) (*Note, error) {
	var n Note
	if err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), noteInput{title, content}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
}

// ShareNote adds target to the note's share list.
func (c *Client) ShareNote(ctx context.Context, id, target string) error {
	body := struct {
		SharedWith string `json:"sharedWith"`
	}{target}
	return c.do(ctx, http.MethodPost, "/api/notes/"+url.PathEscape(id)+"/share", body, nil)
}

// SearchNotes returns notes whose content contains query.
func (c *Client) SearchNotes(ctx context.Context, query string) ([]Note, error) {
	notes := []Note{}
	path := "/api/notes/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
