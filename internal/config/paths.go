package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved absolute paths of the application
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
	TempDir    string
	UsersFile  string
	LogFile    string
}

// resolvePaths fills BaseDir with the working directory when unset
func (c *Config) resolvePaths() error {
	if c.Paths.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		c.Paths.BaseDir = wd
	}
	abs, err := filepath.Abs(c.Paths.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}
	c.Paths.BaseDir = abs
	return nil
}

// ResolvedPaths returns absolute paths for every configured location
func (c *Config) ResolvedPaths() *Paths {
	base := c.Paths.BaseDir
	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(base, c.Paths.DataDir),
		ReportsDir: resolve(base, c.Paths.ReportsDir),
		LogsDir:    resolve(base, c.Paths.LogsDir),
		TempDir:    resolve(base, c.Paths.TempDir),
		UsersFile:  resolve(base, c.Auth.UsersFile),
		LogFile:    resolve(base, c.Logging.FilePath),
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.ReportsDir,
		p.LogsDir,
		p.TempDir,
		filepath.Dir(p.UsersFile),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("users_file", p.UsersFile),
	)
}
