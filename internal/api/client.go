// Package api is the HTTP client for the footoverbridge backend: a
// single configured request client that attaches the bearer token to
// every outgoing call and decodes the {data, pagination, token,
// message} response envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/models"
)

// TokenSource yields the current bearer token, or "" when there is
// none. It is consulted on every request, never captured once, so a
// token rotated mid-session is honored immediately.
type TokenSource interface {
	Token() string
}

// Client talks to one backend origin.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient builds a client for baseURL (including the /api prefix,
// e.g. "http://localhost:5000/api").
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Envelope is the backend response convention.
type Envelope struct {
	Data       json.RawMessage    `json:"data"`
	User       json.RawMessage    `json:"user"`
	Pagination *models.Pagination `json:"pagination"`
	Token      string             `json:"token"`
	Count      int                `json:"count"`
	Message    string             `json:"message"`
}

// Decode unmarshals the envelope's data field into v.
func (e *Envelope) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// DecodeUser unmarshals the envelope's user field into v. Only the
// auth endpoints populate it.
func (e *Envelope) DecodeUser(v any) error {
	return json.Unmarshal(e.User, v)
}

// Get issues a GET with the given query string.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, "", nil, false)
}

// Post issues a JSON POST.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	r, err := jsonReader(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, nil, "application/json", r, true)
}

// Put issues a JSON PUT.
func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	r, err := jsonReader(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, nil, "application/json", r, true)
}

// PostForm issues a multipart POST.
func (c *Client) PostForm(ctx context.Context, path string, form *Form) (*Envelope, error) {
	if err := form.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, nil, form.ContentType(), form.Reader(), true)
}

// PutForm issues a multipart PUT.
func (c *Client) PutForm(ctx context.Context, path string, form *Form) (*Envelope, error) {
	if err := form.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, nil, form.ContentType(), form.Reader(), true)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil, true)
}

func jsonReader(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, mutating bool) (*Envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if mutating {
		// The backend is not assumed to dedupe resubmits on its own,
		// so every mutation carries a fresh key it can replay on.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: 0, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var failure struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &failure) == nil {
			apiErr.Message = failure.Message
		}
		slog.Debug("api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, apiErr
	}

	var env Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &Error{Status: resp.StatusCode, Message: "malformed response body"}
		}
	}
	return &env, nil
}
