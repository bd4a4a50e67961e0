// Package client is the application-side half of the item lifecycle: a
// typed API client, an explicitly owned cache of the server state, and the
// controller that coordinates optimistic updates, direct-to-storage blob
// uploads, and metadata submission into one user-visible operation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wardrobe/service/internal/identity"
	"github.com/wardrobe/service/internal/item"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// API is a thin typed client for the wardrobe REST endpoints.
type API struct {
	base  string
	token string
	http  *http.Client
}

// NewAPI creates a client for the service at base (e.g. "http://localhost:8080")
// authenticating with the given bearer token.
func NewAPI(base, token string) *API {
	return &API{base: base, token: token, http: http.DefaultClient}
}

type itemsResponse struct {
	Items []item.Item `json:"items"`
}

type itemResponse struct {
	Item *item.Item `json:"item"`
}

type totalResponse struct {
	Total int64 `json:"total"`
}

type signedURLResponse struct {
	Success   bool   `json:"success"`
	SignedURL string `json:"signedURL"`
	Error     string `json:"error"`
}

type meResponse struct {
	User identity.Identity `json:"user"`
}

// Items fetches the caller's items, newest first.
func (a *API) Items(ctx context.Context) ([]item.Item, error) {
	var out itemsResponse
	if err := a.do(ctx, http.MethodGet, "/api/wardrobe", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Total fetches the authoritative item count.
func (a *API) Total(ctx context.Context) (int64, error) {
	var out totalResponse
	if err := a.do(ctx, http.MethodGet, "/api/wardrobe/total-items", nil, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// Item fetches a single item by id.
func (a *API) Item(ctx context.Context, id int64) (*item.Item, error) {
	var out itemResponse
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/wardrobe/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

// Create submits a new item's metadata.
func (a *API) Create(ctx context.Context, d item.Draft) (*item.Item, error) {
	var out item.Item
	if err := a.do(ctx, http.MethodPost, "/api/wardrobe", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an existing item's metadata.
func (a *API) Update(ctx context.Context, id int64, d item.Draft) (*item.Item, error) {
	var out item.Item
	if err := a.do(ctx, http.MethodPut, fmt.Sprintf("/api/wardrobe/%d", id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an item and returns the deleted record.
func (a *API) Delete(ctx context.Context, id int64) (*item.Item, error) {
	var out itemResponse
	if err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/wardrobe/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

// SignedURL requests a pre-signed upload URL from the service.
func (a *API) SignedURL(ctx context.Context) (string, error) {
	var out signedURLResponse
	if err := a.do(ctx, http.MethodGet, "/api/signed-url", nil, &out); err != nil {
		return "", err
	}
	if !out.Success || out.SignedURL == "" {
		return "", fmt.Errorf("signed url: %s", out.Error)
	}
	return out.SignedURL, nil
}

// Me fetches the caller's identity.
func (a *API) Me(ctx context.Context) (*identity.Identity, error) {
	var out meResponse
	if err := a.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UploadBlob PUTs the raw file bytes directly to the signed URL with the
// file's declared content type. The signed URL is the full request target;
// no authorization header is attached (the URL itself is the capability).
func (a *API) UploadBlob(ctx context.Context, signedURL string, f *File) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, bytes.NewReader(f.Data))
	if err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	req.Header.Set("Content-Type", f.ContentType)

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: "blob upload failed"}
	}
	return nil
}

func (a *API) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var env struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
