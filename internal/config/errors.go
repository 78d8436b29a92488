package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnsupportedEngine error if config db.gormEngine names no supported driver.
	ErrUnsupportedEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrNoGenerations error if config api.generations is empty.
	ErrNoGenerations = errors.New("toml config api.generations can not be empty")

	// ErrUnknownGeneration error if api.uiConfigGenerations names a generation that is not served.
	ErrUnknownGeneration = errors.New("toml config api.uiConfigGenerations names an unknown generation")

	// ErrUnsupportedSessionBackend error if webserver.session.backend is not db, memory or redis.
	ErrUnsupportedSessionBackend = errors.New("toml config webserver.session.backend must be db, memory or redis")

	// ErrSessionBackendNeedsServerDB error if the db session backend is paired with sqlite.
	ErrSessionBackendNeedsServerDB = errors.New("toml config webserver.session.backend db needs mysql or postgres")

	// ErrEmptyRedisAddr error if the redis session backend has no address.
	ErrEmptyRedisAddr = errors.New("toml config webserver.session.redis.addr can not be empty")

	// ErrNegativeRateLimit error if webserver.loginRateLimit is negative.
	ErrNegativeRateLimit = errors.New("toml config webserver.loginRateLimit can not be negative")
)
