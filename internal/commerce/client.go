// Package commerce is the typed client for the remote commerce API the
// console sits on top of. All persistence of customers, products, orders and
// procurements lives behind that API; this package only shapes requests and
// responses.
package commerce

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const tokenRefreshLeeway = 30 * time.Second

// Client talks to the commerce API. The access token is cached under a
// mutex so concurrent handlers reuse it safely.
type Client struct {
	baseURL    string
	authURL    string
	secret     string
	httpClient *http.Client

	tokenMu     sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewClient constructs a Client for the given endpoints.
func NewClient(baseURL, authURL, secret string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		authURL:    strings.TrimRight(strings.TrimSpace(authURL), "/"),
		secret:     strings.TrimSpace(secret),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type authRequest struct {
	SecretToken string `json:"secret_token"`
}

type authResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	} `json:"data"`
	Error any `json:"error,omitempty"`
}

// Token returns a cached access token, fetching a new one if needed.
func (c *Client) Token() (string, error) {
	return c.getToken(false)
}

// RefreshToken forces retrieval of a fresh access token.
func (c *Client) RefreshToken() (string, error) {
	return c.getToken(true)
}

func (c *Client) getToken(force bool) (string, error) {
	if !force {
		if token, ok := c.cachedToken(); ok {
			return token, nil
		}
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	// Check again in case another goroutine refreshed while we waited for the lock.
	if !force {
		if token := c.currentTokenLocked(); token != "" {
			return token, nil
		}
	}

	if c.secret == "" {
		return "", errors.New("commerce API secret is not configured")
	}

	body, err := json.Marshal(authRequest{SecretToken: c.secret})
	if err != nil {
		return "", fmt.Errorf("marshal auth payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.authURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute auth request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("auth request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var auth authResponse
	if err := json.Unmarshal(respBody, &auth); err != nil {
		return "", fmt.Errorf("unmarshal auth response: %w", err)
	}
	if auth.Data.AccessToken == "" {
		return "", errors.New("auth response missing access_token")
	}

	c.token = auth.Data.AccessToken
	if auth.Data.ExpiresIn > 0 {
		c.tokenExpiry = time.Now().Add(time.Duration(auth.Data.ExpiresIn) * time.Second)
	} else {
		// Fallback to a short lifetime when expiry is not provided.
		c.tokenExpiry = time.Now().Add(5 * time.Minute)
	}

	return c.token, nil
}

func (c *Client) cachedToken() (string, bool) {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()

	token := c.currentTokenLocked()
	if token == "" {
		return "", false
	}
	return token, true
}

func (c *Client) currentTokenLocked() string {
	if c.token == "" {
		return ""
	}
	if c.tokenExpiry.IsZero() {
		return c.token
	}
	if time.Now().Add(tokenRefreshLeeway).After(c.tokenExpiry) {
		return ""
	}
	return c.token
}

// RequestOpts captures inputs for a commerce API call.
type RequestOpts struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

// Response bundles the HTTP response metadata.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// DoRequest performs a generic commerce API request, retrying once with a
// fresh token on 401.
func (c *Client) DoRequest(opts RequestOpts) (*Response, error) {
	if opts.Method == "" {
		return nil, errors.New("request method is required")
	}
	path := strings.TrimLeft(opts.Path, "/")
	if path == "" {
		return nil, errors.New("request path is required")
	}

	buildRequest := func(token string) (*http.Request, error) {
		u, err := url.Parse(c.baseURL + "/" + path)
		if err != nil {
			return nil, fmt.Errorf("parse request URL: %w", err)
		}
		if len(opts.Query) > 0 {
			values := u.Query()
			for k, v := range opts.Query {
				values.Set(k, v)
			}
			u.RawQuery = values.Encode()
		}

		var bodyReader io.Reader
		if opts.Body != nil {
			payload, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequest(opts.Method, u.String(), bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if opts.Body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	}

	do := func(req *http.Request) (*Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		return &Response{
			Status: resp.StatusCode,
			Body:   respBody,
			Header: resp.Header.Clone(),
		}, nil
	}

	token, err := c.Token()
	if err != nil {
		return nil, err
	}

	req, err := buildRequest(token)
	if err != nil {
		return nil, err
	}

	resp, err := do(req)
	if err != nil {
		return nil, err
	}

	if resp.Status != http.StatusUnauthorized {
		return resp, nil
	}

	// Token likely expired; refresh and retry once.
	token, err = c.RefreshToken()
	if err != nil {
		return nil, err
	}

	req, err = buildRequest(token)
	if err != nil {
		return nil, err
	}

	return do(req)
}
