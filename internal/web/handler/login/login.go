package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/web/handler"
	"github.com/caredesk/caredesk/internal/web/session"
)

const (
	// Path is the path to the login endpoint.
	Path = handler.RootPath + "login"
)

type request struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Response describes the logged-in principal.
type Response struct {
	UserID      uint64   `json:"userId"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	localAuth   *auth.LocalProvider
	authService *auth.Service
}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.localAuth = auth.NewLocalProvider(db)
	s.authService = auth.NewService(db)

	router.Post(Path, s.Post)

	return nil
}

// Post handles the JSON login request and sets the session cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	var req request
	if err := handler.ParseBody(c, &req); err != nil {
		return err
	}

	user, err := s.localAuth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
			log.Info().Str("username", req.Username).Msg("Login failed")
			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidCredentials.Error())
		case errors.Is(err, auth.ErrUserAccountDisabled):
			log.Info().Str("username", req.Username).Msg("Login of disabled account")
			return fiber.NewError(fiber.StatusUnauthorized, ErrAccountDisabled.Error())
		default:
			return err
		}
	}

	principal, err := s.authService.LoadPrincipal(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return err
	}

	userSession := &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return err
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Uint64("user_id", user.ID).Str("username", user.Username).
		Str("role", principal.RoleName()).Msg("User logged in")

	return c.JSON(Response{
		UserID:      principal.UserID,
		Username:    principal.Username,
		Role:        principal.RoleName(),
		Permissions: principal.Permissions(),
	})
}
