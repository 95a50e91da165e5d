package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// LoginPayload is the credentials pair submitted to the login endpoint.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&p.Password,
			validation.Required,
		),
	)
}

// LoginResponse is the login endpoint's success body.
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	User         *Profile `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type apiMessage struct {
	Message string `json:"message"`
}

// Client calls the scheduling backend's auth endpoints. Requests go through
// the shared Transport so the current bearer header is attached at call time.
type Client struct {
	baseURL string
	http    *http.Client
	logger  Logger
}

// Verify interface compliance
var _ AuthAPI = (*Client)(nil)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger used for request diagnostics.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client, keeping its transport
// responsibility with the caller.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient returns a Client whose requests carry source's current header.
func NewClient(cfg Config, source *BearerSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.GetBaseURL(), "/"),
		logger:  defLogger{},
		http: &http.Client{
			Timeout:   time.Duration(cfg.GetHTTPTimeout()) * time.Second,
			Transport: &Transport{Source: source},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login exchanges credentials for a token and profile via POST /auth/login.
func (c *Client) Login(ctx context.Context, payload LoginPayload) (*LoginResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode login payload")
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return nil, c.credentialsError(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.unexpectedStatus(resp, "login")
	}

	out := &LoginResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode login response")
	}
	if out.AccessToken == "" || out.User == nil {
		return nil, goerrors.New("login response missing token or user", goerrors.CategoryInternal)
	}

	return out, nil
}

// Me fetches the profile for the current credential via GET /auth/me.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/me", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrTokenExpired.Clone().WithMetadata(map[string]any{
			"endpoint": "/auth/me",
		})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.unexpectedStatus(resp, "me")
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode profile response")
	}

	return profile, nil
}

// Refresh exchanges a refresh token for a new access token via
// POST /auth/refresh. The refresh token rides in the Authorization header,
// overriding the injected access token for this one call.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, "Bearer "+refreshToken)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrTokenExpired.Clone().WithMetadata(map[string]any{
			"endpoint": "/auth/refresh",
		})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.unexpectedStatus(resp, "refresh")
	}

	out := refreshResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode refresh response")
	}
	if out.AccessToken == "" {
		return "", goerrors.New("refresh response missing token", goerrors.CategoryInternal)
	}

	return out.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, authOverride string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authOverride != "" {
		req.Header.Set("Authorization", authOverride)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Auth API unreachable: %s %s: %s", method, path, err)
		return nil, goerrors.Wrap(err, ErrAuthUnreachable.Category, ErrAuthUnreachable.Message).
			WithTextCode(ErrAuthUnreachable.TextCode)
	}

	return resp, nil
}

// credentialsError maps a login rejection to ErrInvalidCredentials, keeping
// the server-provided message when one is present.
func (c *Client) credentialsError(resp *http.Response) error {
	msg := apiMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		c.logger.Debug("Login rejection body was not JSON: %s", err)
	}

	result := ErrInvalidCredentials.Clone()
	if msg.Message != "" {
		result.Message = msg.Message
	}
	return result.WithMetadata(map[string]any{
		"status": resp.StatusCode,
	})
}

func (c *Client) unexpectedStatus(resp *http.Response, operation string) error {
	return goerrors.New(
		fmt.Sprintf("auth %s failed with status %d", operation, resp.StatusCode),
		goerrors.CategoryOperation,
	).WithMetadata(map[string]any{
		"status": resp.StatusCode,
	})
}
