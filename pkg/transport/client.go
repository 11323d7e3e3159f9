package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	encjson "encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/payme/sdk-go/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Scope selects which of the three PayMe services a request is sent to.
type Scope string

const (
	ScopeBilling    Scope = "billing"
	ScopeOnboarding Scope = "onboarding"
	ScopePayment    Scope = "payment"
)

// APIError is returned when a PayMe service answers with a non-2xx status.
// Body carries the raw response so callers can inspect the platform's own
// error payload.
type APIError struct {
	Scope  Scope
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(string(e.Body))
	if msg == "" {
		return fmt.Sprintf("%s service returned status %d", e.Scope, e.Status)
	}
	return fmt.Sprintf("%s service returned status %d: %s", e.Scope, e.Status, msg)
}

// Client issues authenticated requests against the billing, onboarding and
// payment services. The bearer token is guarded by a RWMutex: any number of
// requests may run concurrently, and a SetToken during in-flight requests is
// serialized instead of racing on a shared header.
type Client struct {
	baseURLs map[Scope]string
	http     *http.Client

	mu    sync.RWMutex
	token string
}

// New builds a Client from the configured base endpoints.
//
// TLS peer verification is disabled: the PayMe sandbox environments serve
// self-signed certificates. This is a documented trade-off of the platform
// integration, not something callers can toggle.
func New(cfg config.Config) *Client {
	return &Client{
		baseURLs: map[Scope]string{
			ScopeBilling:    cfg.BaseURLBilling,
			ScopeOnboarding: cfg.BaseURLOnboarding,
			ScopePayment:    cfg.BaseURLPayment,
		},
		http: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// SetToken replaces the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token ("" before authentication).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get issues a GET against scope's base URL + path. query is optional.
func (c *Client) Get(ctx context.Context, scope Scope, path string, query url.Values) (encjson.RawMessage, error) {
	return c.do(ctx, http.MethodGet, scope, path, query, nil)
}

// Post issues a POST with a JSON-encoded body against scope's base URL + path.
func (c *Client) Post(ctx context.Context, scope Scope, path string, body any) (encjson.RawMessage, error) {
	return c.do(ctx, http.MethodPost, scope, path, nil, body)
}

func (c *Client) do(ctx context.Context, method string, scope Scope, path string, query url.Values, body any) (encjson.RawMessage, error) {
	base, ok := c.baseURLs[scope]
	if !ok {
		return nil, fmt.Errorf("unknown scope %q", scope)
	}

	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Attached even before authentication; the onboarding handshake simply
	// ignores the empty value.
	req.Header.Set("Authorization", "Bearer "+c.Token())

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[payme][transport] %s %s scope=%s failed err=%v", method, path, scope, err)
		return nil, fmt.Errorf("%s request to %s service failed: %w", method, scope, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s service response: %w", scope, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[payme][transport] %s %s scope=%s status=%d body_len=%d", method, path, scope, resp.StatusCode, len(raw))
		return nil, &APIError{Scope: scope, Status: resp.StatusCode, Body: raw}
	}

	log.Printf("[payme][transport] %s %s scope=%s status=%d", method, path, scope, resp.StatusCode)
	return raw, nil
}
