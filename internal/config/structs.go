package config

import (
	"time"

	"github.com/caredesk/caredesk/internal/logger"
)

// Session backends.
const (
	SessionBackendDB     = "db"
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // lifetime of a login session
	Table      string        // session table for the mysql and postgres storages
	// Backend is db, memory or redis. Empty picks db for mysql and postgres, memory for sqlite.
	Backend    string
	Redis      Redis
}

// Redis connection for the redis session backend.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	API       API
	Seed      Seed
	Jobs      Jobs
}

// Jobs holds cron schedules of the background jobs.
type Jobs struct {
	RoleStats string // refresh of the per role user gauge
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown in seconds
	URL            string  // base url for the webserver
	Session        Session // session settings
	// LoginRateLimit caps login attempts per client IP and minute. Zero disables the limit.
	LoginRateLimit int
}

// API holds the served API generations.
type API struct {
	// Generations lists the served generations from oldest to newest, e.g. ["v1","v2","v3","v4"].
	Generations []string
	// UIConfigGenerations lists the generations that also serve the ui-config endpoints.
	// Empty means all generations.
	UIConfigGenerations []string
}

// Seed holds the bootstrap account created on an empty database.
type Seed struct {
	Enabled       bool
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}
