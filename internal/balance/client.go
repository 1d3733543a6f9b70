package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/five82/purse/internal/version"
)

// Fetcher retrieves one record from endpoint.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (*Record, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 64 * 1024
	// maxErrorBody bounds the response text carried in error messages.
	maxErrorBody = 512
)

// ErrBodyTooLarge is wrapped in a DecodeError when a 2xx body exceeds the
// read limit.
var ErrBodyTooLarge = errors.New("response too large")

// Client talks to the balance API.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient builds a Client. environment is reported in the User-Agent.
func NewClient(environment string) *Client {
	ua := "purse/" + version.String()
	if env := strings.TrimSpace(environment); env != "" {
		ua += " (" + env + ")"
	}
	return &Client{
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: ua,
	}
}

// UserAgent returns the header value sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Fetch issues one GET against endpoint. There are no retries.
func (c *Client) Fetch(ctx context.Context, endpoint string) (*Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}
	tooLarge := len(body) > maxBodyBytes
	if tooLarge {
		body = body[:maxBodyBytes]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       clip(body),
		}
	}

	if tooLarge {
		return nil, &DecodeError{
			StatusCode: resp.StatusCode,
			Body:       clip(body),
			Err:        fmt.Errorf("%w (over %d bytes)", ErrBodyTooLarge, maxBodyBytes),
		}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Body: clip(body), Err: err}
	}
	rec := Extract(payload)
	return &rec, nil
}

// clip bounds body for error text, cutting on a rune boundary.
func clip(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
