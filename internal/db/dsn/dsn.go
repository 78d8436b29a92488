// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/config"
)

// ErrUnsupportedEngine is returned for an engine without a gorm dialector.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Create builds the Data Source Name from the configuration.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(cfg.DB)
	case config.EngineSQLite:
		return SQLite(cfg.DB)
	default:
		return MySQL(cfg.DB)
	}
}

// MySQL builds a go-sql-driver style DSN.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a pgx URL. Extras is appended as the query string.
func Postgres(db config.DB) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// SQLite returns the database file name. An empty name opens an in-memory database.
func SQLite(db config.DB) string {
	if db.Name == "" {
		return ":memory:"
	}

	return db.Name
}

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(MySQL(cfg.DB)), nil
	case config.EnginePostgres:
		return gormpostgres.Open(Postgres(cfg.DB)), nil
	case config.EngineSQLite:
		return sqlite.Open(SQLite(cfg.DB)), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedEngine, "%q", cfg.DB.GormEngine)
	}
}
