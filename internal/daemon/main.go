// Package daemon wires the database, sessions and web service into a running process.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/db/dsn"
	"github.com/caredesk/caredesk/internal/db/models"
	"github.com/caredesk/caredesk/internal/web"
	"github.com/caredesk/caredesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	storage    fiber.Storage
	cron       *cron.Cron
}

// Start serves until SIGINT or SIGTERM, then drains and releases the session storage.
func (d *Daemon) Start() error {
	d.cron.Start()

	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	<-d.cron.Stop().Done()

	if cerr := d.storage.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close session storage")
	}

	return err
}

// OpenDB opens and migrates the configured database.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = models.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = seed(context.Background(), cfg, db); err != nil {
		return nil, err
	}

	storage, err := newSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	session.Init(storage)

	c := cron.New()
	if err = scheduleRoleStats(c, cfg.Jobs.RoleStats, db); err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, db)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Str("sessions", cfg.Webserver.Session.Backend).
		Strs("generations", cfg.API.Generations).
		Msg("daemon ready")

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		storage:    storage,
		cron:       c,
	}, nil
}
