package daemon

import (
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/db/dsn"
	"github.com/caredesk/caredesk/internal/web/session"
)

// newSessionStorage opens the configured session backend.
func newSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	s := cfg.Webserver.Session

	switch s.Backend {
	case config.SessionBackendMemory:
		return session.NewMemoryStorage(), nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		})

		return session.NewRedisStorage(client, s.Redis.Prefix), nil
	case config.SessionBackendDB:
		switch cfg.DB.GormEngine {
		case config.EngineMySQL:
			return sessionmysql.New(sessionmysql.Config{
				ConnectionURI: dsn.Create(cfg),
				Table:         s.Table,
			}), nil
		case config.EnginePostgres:
			return sessionpostgres.New(sessionpostgres.Config{
				ConnectionURI: dsn.Create(cfg),
				Table:         s.Table,
			}), nil
		}
	}

	return nil, errors.Wrapf(config.ErrUnsupportedSessionBackend,
		"backend %q with engine %q", s.Backend, cfg.DB.GormEngine)
}
