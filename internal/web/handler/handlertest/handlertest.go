// Package handlertest builds fiber apps and requests for handler tests.
package handlertest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/db/models"
	"github.com/caredesk/caredesk/internal/web/handler"
)

// Config returns a minimal valid config for handlers.
func Config() *config.Config {
	return &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		API: config.API{Generations: []string{"v1"}, UIConfigGenerations: []string{"v1"}},
	}
}

// NewApp returns an app using the API error handler. A non-nil principal is
// attached to every request as if the session middleware had run.
func NewApp(p *auth.Principal) *fiber.App {
	app := fiber.New(fiber.Config{UnescapePath: true, ErrorHandler: handler.ErrorHandler})

	if p != nil {
		app.Use(func(c *fiber.Ctx) error {
			auth.WithPrincipal(c, p)
			return c.Next()
		})
	}

	return app
}

// Principal builds a principal of roleName holding permissions.
func Principal(userID uint64, roleName string, permissions ...string) *auth.Principal {
	r := models.Role{Name: roleName}
	for _, name := range permissions {
		r.Permissions = append(r.Permissions, models.Permission{Name: name})
	}

	return auth.NewPrincipal(userID, roleName+"-user", r)
}

// Do sends a request and returns the status code and body.
// A non-empty body is sent as JSON.
func Do(t *testing.T, app *fiber.App, method, target, body string, cookies ...*http.Cookie) (int, string) {
	t.Helper()

	resp := Send(t, app, method, target, body, cookies...)

	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(out)
}

// Send sends a request and returns the raw response; the caller closes the body.
func Send(t *testing.T, app *fiber.App, method, target, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}
