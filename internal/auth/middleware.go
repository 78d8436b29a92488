package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/caredesk/caredesk/internal/web/session"
)

const localsPrincipal = "principal"

var deniedCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "authz_denied_total",
		Help: "Number of requests rejected by an authorization check, by required capability.",
	},
	[]string{"capability"},
)

// Authenticate creates Fiber middleware that resolves the session cookie into a
// Principal and stores it in the request locals.
func Authenticate(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, ErrUnauthenticated.Error())
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Error().Err(err).Msg("Failed to read session")
			return fiber.NewError(fiber.StatusUnauthorized, ErrUnauthenticated.Error())
		}

		if sessionData.UserID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, ErrUnauthenticated.Error())
		}

		principal, err := authService.LoadPrincipal(c.UserContext(), sessionData.UserID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUserAccountDisabled) {
				log.Warn().Err(err).Uint64("user_id", sessionData.UserID).Msg("Session user rejected")
				return fiber.NewError(fiber.StatusUnauthorized, ErrUnauthenticated.Error())
			}

			log.Error().Err(err).Uint64("user_id", sessionData.UserID).Msg("Failed to load principal")

			return err
		}

		c.Locals(localsPrincipal, principal)

		return c.Next()
	}
}

// PrincipalFromContext returns the request's principal or nil when unauthenticated.
func PrincipalFromContext(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(localsPrincipal).(*Principal)
	return p
}

// WithPrincipal stores p in the request locals.
func WithPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(localsPrincipal, p)
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(permission string) fiber.Handler {
	return Require(permission, func(*fiber.Ctx) Predicate {
		return Has(permission)
	})
}

// Require creates Fiber middleware that evaluates a request-dependent predicate.
// The capability name labels logs and metrics.
func Require(capability string, build func(c *fiber.Ctx) Predicate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromContext(c)
		if principal == nil {
			return fiber.NewError(fiber.StatusUnauthorized, ErrUnauthenticated.Error())
		}

		if !Satisfies(principal, build(c)) {
			deniedCounter.WithLabelValues(capability).Inc()
			log.Warn().Uint64("user_id", principal.UserID).Str("role", principal.RoleName()).
				Str("capability", capability).Str("path", c.Path()).
				Msg("User lacks required capability")

			return fiber.NewError(fiber.StatusForbidden, ErrUnauthorized.Error())
		}

		return c.Next()
	}
}
