// Package resource loads packaged JSON assets either over HTTP or through a host bridge.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrResourceUnavailable reports that an asset could not be fetched.
var ErrResourceUnavailable = errors.New("resource unavailable")

// DefaultTimeout bounds a single asset request.
const DefaultTimeout = 15 * time.Second

// Loader returns the parsed JSON document stored at a relative path.
type Loader interface {
	Load(ctx context.Context, path string) (json.RawMessage, error)
}

// Env describes the host the application runs in.
type Env struct {
	// HasBridge is true when a privileged host bridge is available.
	HasBridge bool
	// MobileShell is true inside the mobile wrapper.
	MobileShell bool
	// Development forces direct fetches so shell network rules are bypassed.
	Development bool
}

// Restricted reports whether the host may block third-party CDNs,
// i.e. anything other than a development browser session.
func (e Env) Restricted() bool {
	return e.HasBridge || e.MobileShell || !e.Development
}

// FetchLoader issues GET <BaseURL>/<path>.
type FetchLoader struct {
	BaseURL string
	Client  *http.Client
}

// NewFetchLoader returns a FetchLoader with a bounded client.
func NewFetchLoader(baseURL string) *FetchLoader {
	return &FetchLoader{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// Load implements Loader.
func (l *FetchLoader) Load(ctx context.Context, path string) (json.RawMessage, error) {
	url := strings.TrimRight(l.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	return FetchJSON(ctx, l.Client, url)
}

// FetchJSON GETs url and returns the body when it is a successful JSON response.
// Every failure wraps ErrResourceUnavailable.
func FetchJSON(ctx context.Context, client *http.Client, url string) (json.RawMessage, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrResourceUnavailable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrResourceUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %s", ErrResourceUnavailable, url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrResourceUnavailable, url, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", ErrResourceUnavailable, url)
	}
	return json.RawMessage(body), nil
}

// EnvLoader picks the fetch or bridge variant on every call.
type EnvLoader struct {
	Env    func() Env
	Fetch  Loader
	Bridge Loader
}

// Load implements Loader.
func (l *EnvLoader) Load(ctx context.Context, path string) (json.RawMessage, error) {
	var env Env
	if l.Env != nil {
		env = l.Env()
	}
	return Select(env, l.Fetch, l.Bridge).Load(ctx, path)
}

// Select returns bridge only outside development and when a bridge exists.
func Select(env Env, fetch, bridge Loader) Loader {
	if env.Development || !env.HasBridge || bridge == nil {
		return fetch
	}
	return bridge
}
