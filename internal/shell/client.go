package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/caredesk/caredesk/internal/uiconfig"
	"github.com/caredesk/caredesk/internal/web/session"
)

// ErrConfigurationLoadFailure is returned when no generation could serve the configuration.
var ErrConfigurationLoadFailure = errors.New("configuration load failure")

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Doer sends HTTP requests; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoadError describes a failed load. It matches ErrConfigurationLoadFailure with
// errors.Is and unwraps to the underlying cause.
type LoadError struct {
	// Generation is the last generation tried.
	Generation string
	// Status is the HTTP status of the last response, 0 if none was received.
	Status int
	// Err is the cause.
	Err error
}

func (e *LoadError) Error() string {
	msg := ErrConfigurationLoadFailure.Error() + ": generation " + e.Generation
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is reports whether target is ErrConfigurationLoadFailure.
func (e *LoadError) Is(target error) bool {
	return target == ErrConfigurationLoadFailure //nolint:errorlint,err113
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is a fetched configuration and the generation that served it.
type Result struct {
	Generation string
	// Retries counts the fallbacks to older generations.
	Retries int
	Config  uiconfig.Combined
}

// Client fetches role configuration from a CareDesk server.
type Client struct {
	baseURL     string
	generations []string // oldest first
	doer        Doer
	sessionID   string
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the default *http.Client.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithSession sends the given session id as the session cookie.
func WithSession(sessionID string) Option {
	return func(c *Client) {
		c.sessionID = sessionID
	}
}

// NewClient creates a client for baseURL. generations lists the served API
// generations from oldest to newest, as in the server configuration.
func NewClient(baseURL string, generations []string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		generations: generations,
		doer:        &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generations returns the generations in the order they are tried, newest first.
func (c *Client) Generations() []string {
	out := make([]string, 0, len(c.generations))
	for i := len(c.generations) - 1; i >= 0; i-- {
		out = append(out, c.generations[i])
	}

	return out
}

// FetchCombined loads the combined documents of roleName. It starts at the newest
// generation and moves one generation older on every 404. Any other failure, or a
// 404 from the oldest generation, ends the negotiation.
func (c *Client) FetchCombined(ctx context.Context, roleName string) (*Result, error) {
	order := c.Generations()
	if len(order) == 0 {
		return nil, &LoadError{Err: errors.New("no api generations configured")}
	}

	var lastErr *LoadError

	for retries, generation := range order {
		if err := ctx.Err(); err != nil {
			return nil, &LoadError{Generation: generation, Err: err}
		}

		combined, status, err := c.fetch(ctx, generation, roleName)
		if err == nil {
			if retries > 0 {
				log.Info().Str("role", roleName).Str("generation", generation).Int("retries", retries).
					Msg("ui-config served by an older generation")
			}

			return &Result{Generation: generation, Retries: retries, Config: *combined}, nil
		}

		lastErr = &LoadError{Generation: generation, Status: status, Err: err}
		if status != http.StatusNotFound {
			return nil, lastErr
		}

		log.Debug().Str("role", roleName).Str("generation", generation).Msg("ui-config not found, trying older generation")
	}

	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, generation, roleName string) (*uiconfig.Combined, int, error) {
	target := fmt.Sprintf("%s/api/%s/ui-config/%s", c.baseURL, generation, url.PathEscape(roleName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Accept", "application/json")

	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.sessionID})
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, 0, err
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))) //nolint:err113
	}

	var out uiconfig.Combined
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return &out, resp.StatusCode, nil
}
