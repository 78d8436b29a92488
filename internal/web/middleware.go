package web

import (
	"net/http"
	"path"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"

	"github.com/caredesk/caredesk/internal/config"
)

// requestID tags every request and response with an X-Request-ID. A client supplied id is kept.
func requestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// secureHeaders sets the browser hardening headers on every response.
func secureHeaders(cfg *config.Config) fiber.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         cfg.DevMode,
	})

	return adaptor.HTTPMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("secure headers blocked request")
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

				return
			}

			next.ServeHTTP(w, r)
		})
	})
}

// loginRateLimit caps login attempts per client IP and minute.
func loginRateLimit(perMinute int) fiber.Handler {
	return adaptor.HTTPMiddleware(httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":429,"error":"too many login attempts"}`))
		}),
	))
}

// cleanPath collapses duplicate slashes and dot segments before routing.
func cleanPath(c *fiber.Ctx) error {
	if p := c.Path(); len(p) > 1 {
		if cleaned := path.Clean(p); cleaned != p {
			c.Path(cleaned)
		}
	}

	return c.Next()
}
