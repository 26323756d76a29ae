// Package client is a Go client for the birthdays HTTP API. It carries the
// session cookie between calls the way a browser would.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/session"
)

// ErrNotAuthenticated matches any *APIError with status 401.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotAuthenticated && e.Status == http.StatusUnauthorized
}

// Client is an HTTP client for the birthdays API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a Client for baseURL with its own cookie jar.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SessionCookie returns the session cookie value held for the API, if any.
func (c *Client) SessionCookie() string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == session.CookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionCookie installs a previously saved session cookie value.
func (c *Client) SetSessionCookie(value string) {
	if value == "" {
		return
	}
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  session.CookieName,
		Value: value,
		Path:  "/",
	}})
}

func (c *Client) clearSessionCookie() {
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:   session.CookieName,
		Path:   "/",
		MaxAge: -1,
	}})
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, username, password string) (model.Identity, error) {
	var identity model.Identity
	err := c.do(ctx, http.MethodPost, "/api/register", model.CredentialsRequest{Username: username, Password: password}, &identity)
	return identity, err
}

// Login signs in with existing credentials.
func (c *Client) Login(ctx context.Context, username, password string) (model.Identity, error) {
	var identity model.Identity
	err := c.do(ctx, http.MethodPost, "/api/login", model.CredentialsRequest{Username: username, Password: password}, &identity)
	return identity, err
}

// Session returns the identity of the current session.
func (c *Client) Session(ctx context.Context) (model.Identity, error) {
	var identity model.Identity
	err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &identity)
	return identity, err
}

// Logout destroys the current session. A cookie the server no longer accepts
// is dropped from the jar as well.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/api/sessions", nil, nil)
	if errors.Is(err, ErrNotAuthenticated) {
		c.clearSessionCookie()
	}
	return err
}

// ListBirthdays returns every birthday of the signed-in user.
func (c *Client) ListBirthdays(ctx context.Context) ([]model.BirthdayResponse, error) {
	var birthdays []model.BirthdayResponse
	if err := c.do(ctx, http.MethodGet, "/api/data", nil, &birthdays); err != nil {
		return nil, err
	}
	return birthdays, nil
}

// CreateBirthday stores a new birthday.
func (c *Client) CreateBirthday(ctx context.Context, req model.BirthdayRequest) (model.BirthdayResponse, error) {
	var b model.BirthdayResponse
	err := c.do(ctx, http.MethodPost, "/api/data", req, &b)
	return b, err
}

// UpdateBirthday changes the fields set in patch.
func (c *Client) UpdateBirthday(ctx context.Context, id int64, patch model.BirthdayPatch) (model.BirthdayResponse, error) {
	var b model.BirthdayResponse
	err := c.do(ctx, http.MethodPatch, "/api/data/"+strconv.FormatInt(id, 10), patch, &b)
	return b, err
}

// DeleteBirthday removes a birthday.
func (c *Client) DeleteBirthday(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/data/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}

	return nil
}
