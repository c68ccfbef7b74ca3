// Package api is the HTTP client for the sync server. It speaks the JSON
// envelope protocol and authenticates with the X-Api-Key header; cookie
// sessions belong to the web panel, not this client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/client/models"
)

// ErrServer covers error envelopes with no more specific mapping.
var ErrServer = errors.New("server error")

const requestTimeout = 30 * time.Second

// Client talks to one sync server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SetAPIKey swaps the key used for subsequent requests, e.g. after login or
// key rotation.
func (c *Client) SetAPIKey(apiKey string) { c.apiKey = apiKey }

// envelope mirrors the server's uniform response body.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// Credentials is the login/register response payload.
type Credentials struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

// SyncData is the full server snapshot.
type SyncData struct {
	Hosts     []*models.Host     `json:"hosts"`
	Passwords []*models.Password `json:"passwords"`
	Keys      []*models.Key      `json:"keys"`
	LastSync  *time.Time         `json:"last_sync"`
}

// SyncPush is a write-sync payload; nil collections are omitted and leave
// the corresponding server state untouched.
type SyncPush struct {
	Hosts     *[]*models.Host     `json:"hosts,omitempty"`
	Passwords *[]*models.Password `json:"passwords,omitempty"`
	Keys      *[]*models.Key      `json:"keys,omitempty"`
}

// Stats summarizes the account as reported by the status endpoint.
type Stats struct {
	Hosts     int        `json:"hosts"`
	Passwords int        `json:"passwords"`
	Keys      int        `json:"keys"`
	LastSync  *time.Time `json:"last_sync"`
}

// Status is the status endpoint payload.
type Status struct {
	Version string `json:"version"`
	Email   string `json:"email"`
	Stats   Stats  `json:"stats"`
}

// UserInfo is the user/info payload.
type UserInfo struct {
	Email     string    `json:"email"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*Credentials, error) {
	var out Credentials
	err := c.call(ctx, http.MethodPost, "/api/v1/register",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	var out Credentials
	err := c.call(ctx, http.MethodPost, "/api/v1/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSync downloads the complete server snapshot.
func (c *Client) FetchSync(ctx context.Context) (*SyncData, error) {
	var out SyncData
	if err := c.call(ctx, http.MethodGet, "/api/v1/sync", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PushSync uploads a full-replace payload and returns the server's new
// last_sync timestamp.
func (c *Client) PushSync(ctx context.Context, push *SyncPush) (time.Time, error) {
	body := struct {
		Data *SyncPush `json:"data"`
	}{Data: push}
	var out struct {
		LastSync time.Time `json:"last_sync"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v1/sync", body, &out); err != nil {
		return time.Time{}, err
	}
	return out.LastSync, nil
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.call(ctx, http.MethodGet, "/api/v1/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserInfo(ctx context.Context) (*UserInfo, error) {
	var out UserInfo
	if err := c.call(ctx, http.MethodGet, "/api/v1/user/info", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes the account and everything it owns.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/v1/user/delete", nil, nil)
}

// call performs one request/response cycle: marshal the body, attach the
// API key, decode the envelope and map error responses to sentinels.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: unexpected response (HTTP %d)", ErrServer, resp.StatusCode)
	}

	if env.Status != "success" {
		return envelopeError(resp.StatusCode, &env)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: malformed data payload", ErrServer)
		}
	}
	return nil
}

// envelopeError maps a coded error envelope to a sentinel the caller can
// test with errors.Is. The server message rides along for display.
func envelopeError(httpStatus int, env *envelope) error {
	var base error
	switch env.Code {
	case common.CodeRateLimitExceeded:
		base = common.ErrRateLimited
	case common.CodeSessionRequired, common.CodeSessionExpired:
		base = common.ErrorUnauthorized
	default:
		switch httpStatus {
		case http.StatusUnauthorized, http.StatusForbidden:
			base = common.ErrorUnauthorized
		case http.StatusBadRequest:
			base = common.ErrorValidation
		case http.StatusNotFound:
			base = common.ErrorNotFound
		default:
			base = ErrServer
		}
	}
	if env.Message != "" {
		return fmt.Errorf("%w: %s", base, env.Message)
	}
	return base
}
