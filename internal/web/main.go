// Package web assembles the HTTP API: middleware, the session endpoints and one
// route group per served API generation.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	fiberlogger "github.com/caredesk/caredesk/internal/logger/adapter/fiber"
	"github.com/caredesk/caredesk/internal/web/handler"
	"github.com/caredesk/caredesk/internal/web/handler/admin/permission"
	"github.com/caredesk/caredesk/internal/web/handler/admin/role"
	"github.com/caredesk/caredesk/internal/web/handler/login"
	"github.com/caredesk/caredesk/internal/web/handler/logout"
	"github.com/caredesk/caredesk/internal/web/handler/uiconfig"
	"github.com/caredesk/caredesk/internal/web/handler/user"
)

const (
	// CheckAlivePath answers 200 while serving and 503 while draining.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"

	// APIPrefix precedes the generation, e.g. /api/v3.
	APIPrefix = "/api/"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("fiber listen error")
		}

		doneFiber <- err
	}()

	// wait for fiber to stop
	return <-doneFiber
}

// Alive reports whether /checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown drains and stops the server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			UnescapePath:   true, // role names in route params arrive decoded
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		authService:  auth.NewService(db),
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(requestID())

	// access log next, it renders chain errors through the error handler
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		Identity:      identity,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(secureHeaders(cfg))

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	if cfg.Webserver.LoginRateLimit > 0 {
		app.Use(login.Path, loginRateLimit(cfg.Webserver.LoginRateLimit))
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// session endpoints live outside the generations
	for _, h := range []handler.Service{new(login.Service), new(logout.Service)} {
		if err := h.Init(app, cfg, db); err != nil {
			return nil, err
		}
	}

	if err := service.registerGenerations(); err != nil {
		return nil, err
	}

	return service, nil
}

// registerGenerations mounts one authenticated group per API generation. All of them
// serve administration; only the configured ones serve ui-config, so older clients
// and newer ones see different surfaces.
func (s *Service) registerGenerations() error {
	admin := []handler.Service{new(role.Service), new(permission.Service), new(user.Service)}
	uiConfig := new(uiconfig.Service)

	for _, generation := range s.cfg.API.Generations {
		group := s.App.Group(APIPrefix+generation, auth.Authenticate(s.authService))

		for _, h := range admin {
			if err := h.Init(group, s.cfg, s.db); err != nil {
				return err
			}
		}

		if slices.Contains(s.cfg.API.UIConfigGenerations, generation) {
			if err := uiConfig.Init(group, s.cfg, s.db); err != nil {
				return err
			}
		}

		log.Debug().Str("generation", generation).
			Bool("ui_config", slices.Contains(s.cfg.API.UIConfigGenerations, generation)).
			Msg("API generation registered")
	}

	return nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

func identity(c *fiber.Ctx) (string, string) {
	p := auth.PrincipalFromContext(c)
	if p == nil {
		return "", ""
	}

	return p.Username, p.RoleName()
}
