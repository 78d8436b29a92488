package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "CareDesk", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, 12*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, SessionBackendMemory, cfg.Webserver.Session.Backend)
	assert.Equal(t, "@every 1m", cfg.Jobs.RoleStats)
	assert.Equal(t, 10, cfg.Webserver.LoginRateLimit)
	assert.Equal(t, []string{"v1", "v2", "v3", "v4"}, cfg.API.Generations)
	assert.Equal(t, []string{"v1", "v2", "v3"}, cfg.API.UIConfigGenerations)

	assert.Equal(t, "info", cfg.Log.LogLevel)
	assert.Equal(t, "caredesk", cfg.Log.AppName)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, "access.log", cfg.Log.File.Access.File)
	assert.Equal(t, 30, cfg.Log.File.Error.MaxAge)

	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
}

func TestReadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CAREDESK_DB_PASSWORD", "from-env")
	t.Setenv(EnvJSONOverride, `{"Webserver":{"Port":9090},"API":{"UIConfigGenerations":["v2"]}}`)

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.DB.Password)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL, "keys absent from the override are kept")
	assert.Equal(t, []string{"v2"}, cfg.API.UIConfigGenerations)
}

func TestReadConfig_BadJSONOverride(t *testing.T) {
	t.Setenv(EnvJSONOverride, `{"Webserver":`)

	_, err := ReadConfig(projectConfigPath(t))
	require.Error(t, err)
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestReadConfig_MinimalFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
[Webserver]
Port = 3000
URL = "http://localhost:3000"

[API]
Generations = ["v1", "v2"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, defaultShutDownTime, cfg.Webserver.ShutDownTime)
	assert.Equal(t, defaultSessionExpiry, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, defaultSessionTable, cfg.Webserver.Session.Table)
	assert.Equal(t, EngineMySQL, cfg.DB.GormEngine)
	assert.Equal(t, SessionBackendDB, cfg.Webserver.Session.Backend)
	assert.Equal(t, defaultRoleStats, cfg.Jobs.RoleStats)
	assert.Equal(t, []string{"v1", "v2"}, cfg.API.UIConfigGenerations, "empty list means every generation")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{
				Port:    8080,
				URL:     "http://localhost",
				Session: Session{Backend: SessionBackendMemory},
			},
			DB:        DB{GormEngine: EngineSQLite},
			API:       API{Generations: []string{"v1", "v2"}, UIConfigGenerations: []string{"v1"}},
		}
	}

	testCases := []struct {
		name          string
		mutate        func(c *Config)
		expectedError error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Webserver.Port = 0 }, expectedError: ErrWebServerPortCanNotBeZero},
		{name: "empty url", mutate: func(c *Config) { c.Webserver.URL = "" }, expectedError: ErrEmptyURL},
		{name: "unknown engine", mutate: func(c *Config) { c.DB.GormEngine = "oracle" }, expectedError: ErrUnsupportedEngine},
		{
			name:          "db sessions on sqlite",
			mutate:        func(c *Config) { c.Webserver.Session.Backend = SessionBackendDB },
			expectedError: ErrSessionBackendNeedsServerDB,
		},
		{
			name: "db sessions on postgres",
			mutate: func(c *Config) {
				c.DB.GormEngine = EnginePostgres
				c.Webserver.Session.Backend = SessionBackendDB
			},
		},
		{
			name:          "redis without addr",
			mutate:        func(c *Config) { c.Webserver.Session.Backend = SessionBackendRedis },
			expectedError: ErrEmptyRedisAddr,
		},
		{
			name: "redis with addr",
			mutate: func(c *Config) {
				c.Webserver.Session.Backend = SessionBackendRedis
				c.Webserver.Session.Redis.Addr = "localhost:6379"
			},
		},
		{
			name:          "unknown session backend",
			mutate:        func(c *Config) { c.Webserver.Session.Backend = "file" },
			expectedError: ErrUnsupportedSessionBackend,
		},
		{
			name:          "negative rate limit",
			mutate:        func(c *Config) { c.Webserver.LoginRateLimit = -1 },
			expectedError: ErrNegativeRateLimit,
		},
		{name: "no generations", mutate: func(c *Config) { c.API.Generations = nil }, expectedError: ErrNoGenerations},
		{
			name:          "ui-config on unknown generation",
			mutate:        func(c *Config) { c.API.UIConfigGenerations = []string{"v9"} },
			expectedError: ErrUnknownGeneration,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)

			err := validate(c)
			if tc.expectedError == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	out, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "[Webserver]")
	assert.Contains(t, out, "Generations")

	out, err = DumpConfigJSON(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "CareDesk"`)

	out, err = DumpConfigYAML(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "title: CareDesk")
	assert.Contains(t, out, "webserver:")
}
