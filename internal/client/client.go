// Package client talks to the Trellix API and keeps an optimistic view of
// a board while mutations are in flight.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trellix/internal/board"
	"trellix/internal/mutation"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type BoardSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Client is a thin JSON client for the API. It is safe for concurrent use
// once the token is set.
type Client struct {
	base  string
	token string
	http  *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Token() string {
	return c.token
}

// Signup creates an account and returns its session token.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/signup", email, password)
}

// Login returns a session token for the account.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (string, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Boards(ctx context.Context) ([]BoardSummary, error) {
	var boards []BoardSummary
	err := c.doJSON(ctx, http.MethodGet, "/boards", nil, &boards)
	return boards, err
}

func (c *Client) CreateBoard(ctx context.Context, name, color string) (BoardSummary, error) {
	var created BoardSummary
	body := map[string]string{"name": name, "color": color}
	err := c.doJSON(ctx, http.MethodPost, "/boards", body, &created)
	return created, err
}

func (c *Client) DeleteBoard(ctx context.Context, boardID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/boards/"+url.PathEscape(boardID), nil, nil)
}

// Snapshot fetches the authoritative state of a board.
func (c *Client) Snapshot(ctx context.Context, boardID string) (board.Snapshot, error) {
	var snap board.Snapshot
	err := c.doJSON(ctx, http.MethodGet, "/boards/"+url.PathEscape(boardID), nil, &snap)
	return snap, err
}

// Submit posts one mutation to the action endpoint as a form, tagged with
// a fresh idempotency key.
func (c *Client) Submit(ctx context.Context, boardID string, m mutation.Mutation) error {
	form := m.Fields().Values()
	req, err := c.newRequest(ctx, http.MethodPost, "/boards/"+url.PathEscape(boardID), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())
	return c.do(req, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := sonic.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = sonic.Unmarshal(data, &payload)
		return &StatusError{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
