// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvJSONOverride names the env variable holding a JSON document merged over the file config.
	EnvJSONOverride = "CAREDESK_CONFIG_JSON"

	envPrefix = "CAREDESK"

	defaultShutDownTime  = 5
	defaultSessionExpiry = 24 * time.Hour
	defaultSessionTable  = "sessions"
	defaultRoleStats     = "@every 5m"
)

// ReadConfig from config file.
// Values can be overridden per key from CAREDESK_* env variables
// (e.g. CAREDESK_DB_PASSWORD) and as a whole from CAREDESK_CONFIG_JSON.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if jsonConfigEnv := os.Getenv(EnvJSONOverride); jsonConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, jsonConfigEnv)
		if err != nil {
			return c, err
		}
	}

	applyDefaults(&c)

	return c, validate(c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigYAML config as YAML String.
func DumpConfigYAML(c Config) (string, error) {
	var buffer bytes.Buffer

	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2) //nolint:mnd

	if err := enc.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	if err := enc.Close(); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func applyDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.Table == "" {
		c.Webserver.Session.Table = defaultSessionTable
	}

	c.DB.GormEngine = strings.ToLower(strings.TrimSpace(c.DB.GormEngine))
	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineMySQL
	}

	if c.Jobs.RoleStats == "" {
		c.Jobs.RoleStats = defaultRoleStats
	}

	c.Webserver.Session.Backend = strings.ToLower(strings.TrimSpace(c.Webserver.Session.Backend))
	if c.Webserver.Session.Backend == "" {
		c.Webserver.Session.Backend = SessionBackendDB
		if c.DB.GormEngine == EngineSQLite {
			c.Webserver.Session.Backend = SessionBackendMemory
		}
	}

	if len(c.API.UIConfigGenerations) == 0 {
		c.API.UIConfigGenerations = slices.Clone(c.API.Generations)
	}
}

// validate minimal config settings.
func validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnsupportedEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	switch c.Webserver.Session.Backend {
	case SessionBackendDB:
		if c.DB.GormEngine == EngineSQLite {
			return errors.Wrap(ErrSessionBackendNeedsServerDB, invalidErrMessage)
		}
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.Webserver.Session.Redis.Addr == "" {
			return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnsupportedSessionBackend, "%s: %q", invalidErrMessage, c.Webserver.Session.Backend)
	}

	if c.Webserver.LoginRateLimit < 0 {
		return errors.Wrap(ErrNegativeRateLimit, invalidErrMessage)
	}

	if len(c.API.Generations) == 0 {
		return errors.Wrap(ErrNoGenerations, invalidErrMessage)
	}

	for _, g := range c.API.UIConfigGenerations {
		if !slices.Contains(c.API.Generations, g) {
			return errors.Wrapf(ErrUnknownGeneration, "%s: %q", invalidErrMessage, g)
		}
	}

	return nil
}
