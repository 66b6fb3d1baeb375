// Package api is the HTTP client for the kyun.host API. Every call is a
// single synchronous request authenticated by the active account's API key
// (or a short-lived login token during account setup); there is no retry or
// backoff, failures surface directly to the caller.
package api

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.kyun.host"

const defaultTimeout = 20 * time.Second

const (
	authTokenHeader = "X-Auth-Token"
	otpCodeHeader   = "X-OTP-Code"
)

// Client issues authenticated requests against the remote API.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default endpoint.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if normalized, err := normalizeBaseURL(raw); err == nil {
			c.http.SetBaseURL(normalized)
		}
	}
}

// WithAPIKey authenticates requests with a stored API key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.http.SetHeader(authTokenHeader, key)
		}
	}
}

// WithTempToken authenticates requests with the short-lived token returned
// by login, used during account setup before an API key exists.
func WithTempToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.http.SetHeader(authTokenHeader, token)
		}
	}
}

// WithOTP sends a one-time 2FA code with every request.
func WithOTP(code string) Option {
	return func(c *Client) {
		if code = strings.TrimSpace(code); code != "" {
			c.http.SetHeader(otpCodeHeader, code)
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// New creates a Client against DefaultBaseURL with a 20 second timeout.
func New(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty address")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("address must include host and scheme")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// get issues a GET and unmarshals the JSON response into out.
func (c *Client) get(req *resty.Request, path string, out interface{}) error {
	resp, err := req.Get(path)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	if err := mapStatusError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(err, "decode GET %s response", path)
	}
	return nil
}

// jsonQuote marshals a bare string body; resty would otherwise send Go
// strings raw, while the service expects JSON-quoted strings.
func jsonQuote(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

// decodeString extracts a bare string payload; the service JSON-quotes
// plain-string responses.
func decodeString(resp *resty.Response) string {
	raw := strings.TrimSpace(string(resp.Body()))
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return strings.Trim(raw, `"`)
}
