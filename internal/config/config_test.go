package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.resolvePaths())
	require.NoError(t, cfg.validate())

	assert.Equal(t, []string{"Data prevista de entrega"}, cfg.Processing.RequiredColumns)
	assert.Equal(t, time.Hour, cfg.Processing.CacheTTL)
	assert.Equal(t, 100, cfg.Processing.CacheMaxEntries)
	assert.Equal(t, int64(200*1024*1024), cfg.Processing.MaxUploadBytes)
	assert.Equal(t, "users.json", cfg.Auth.UsersFile)
}

func TestDefault_DoesNotAliasRequiredColumns(t *testing.T) {
	cfg := Default()
	cfg.Processing.RequiredColumns[0] = "changed"
	assert.Equal(t, "Data prevista de entrega", RequiredColumns[0])
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: 9000
processing:
  required_columns: ["Previsão"]
  cache_ttl: 10m
export:
  report_title: "Relatório Norte"
`
	require.NoError(t, os.WriteFile(file, []byte(yml), 0644))

	t.Setenv("LOGISTIC_CONFIG_FILE", file)
	t.Setenv("LOGISTIC_SERVER_PORT", "9100")
	t.Setenv("LOGISTIC_PATHS_BASE_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env wins over file")
	assert.Equal(t, []string{"Previsão"}, cfg.Processing.RequiredColumns)
	assert.Equal(t, 10*time.Minute, cfg.Processing.CacheTTL)
	assert.Equal(t, "Relatório Norte", cfg.Export.ReportTitle)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout, "defaults survive")
	assert.Equal(t, dir, cfg.Paths.BaseDir)
}

func TestLoad_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server: [unclosed"), 0644))
	t.Setenv("LOGISTIC_CONFIG_FILE", file)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, true},
		{"no required columns", func(c *Config) { c.Processing.RequiredColumns = nil }, true},
		{"no upload limit", func(c *Config) { c.Processing.MaxUploadBytes = 0 }, true},
		{"unknown location", func(c *Config) { c.Processing.Location = "Mars/Olympus" }, true},
		{"cors without origins", func(c *Config) { c.Security.AllowedOrigins = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ForcesJSONLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
}

func TestResolvedPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = dir
	cfg.Auth.UsersFile = "/etc/logisticsmart/users.json"

	p := cfg.ResolvedPaths()
	assert.Equal(t, filepath.Join(dir, "data", "reports"), p.ReportsDir)
	assert.Equal(t, "/etc/logisticsmart/users.json", p.UsersFile)
	assert.Equal(t, filepath.Join(dir, "logs", "app.log"), p.LogFile)

	p.UsersFile = filepath.Join(dir, "conf", "users.json")
	require.NoError(t, p.EnsureDirectories())
	assert.DirExists(t, p.TempDir)
	assert.DirExists(t, filepath.Join(dir, "conf"))
}
