package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. LOGISTIC_SERVER_PORT
const EnvPrefix = "LOGISTIC"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Auth       AuthConfig       `yaml:"auth" envconfig:"AUTH"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	// SecureCookies marks the session cookie Secure; enable behind TLS
	SecureCookies bool `yaml:"secure_cookies" envconfig:"SECURE_COOKIES"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against BaseDir.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	TempDir    string `yaml:"temp_dir" envconfig:"TEMP_DIR"`
}

// ProcessingConfig controls loading and preprocessing of delivery sheets
type ProcessingConfig struct {
	RequiredColumns []string      `yaml:"required_columns" envconfig:"REQUIRED_COLUMNS"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	CacheTTL        time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL"`
	CacheMaxEntries int           `yaml:"cache_max_entries" envconfig:"CACHE_MAX_ENTRIES"`
	DayFirst        bool          `yaml:"day_first" envconfig:"DAY_FIRST"`
	Location        string        `yaml:"location" envconfig:"LOCATION"`
}

// ExportConfig controls report rendering
type ExportConfig struct {
	ReportTitle   string        `yaml:"report_title" envconfig:"REPORT_TITLE"`
	DocumentTitle string        `yaml:"document_title" envconfig:"DOCUMENT_TITLE"`
	ChromePath    string        `yaml:"chrome_path" envconfig:"CHROME_PATH"`
	PDFTimeout    time.Duration `yaml:"pdf_timeout" envconfig:"PDF_TIMEOUT"`
	DisablePDF    bool          `yaml:"disable_pdf" envconfig:"DISABLE_PDF"`
}

// AuthConfig contains credential store and session settings
type AuthConfig struct {
	UsersFile      string        `yaml:"users_file" envconfig:"USERS_FILE"`
	SessionTimeout time.Duration `yaml:"session_timeout" envconfig:"SESSION_TIMEOUT"`
	SeedDefaults   bool          `yaml:"seed_defaults" envconfig:"SEED_DEFAULTS"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	ServiceVersion string `yaml:"service_version" envconfig:"SERVICE_VERSION"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if len(c.Processing.RequiredColumns) == 0 {
		return fmt.Errorf("at least one required column label must be configured")
	}

	if c.Processing.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	if c.Processing.CacheMaxEntries < 0 {
		return fmt.Errorf("cache max entries cannot be negative")
	}

	if _, err := c.Processing.TimeLocation(); err != nil {
		return fmt.Errorf("invalid processing location %q: %w", c.Processing.Location, err)
	}

	// JSON only, dual output
	c.Logging.Format = "json"
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// TimeLocation returns the location used to interpret calendar dates
func (p ProcessingConfig) TimeLocation() (*time.Location, error) {
	if p.Location == "" || p.Location == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(p.Location)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8501,
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     120 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8501"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:       DefaultLogLevel,
			Format:      "json",
			Output:      "both",
			FilePath:    "logs/app.log",
			Development: false,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
			TempDir:    DefaultTempDir,
		},
		Processing: ProcessingConfig{
			RequiredColumns: append([]string(nil), RequiredColumns...),
			MaxUploadBytes:  MaxUploadSize,
			CacheTTL:        LoadCacheTTL,
			CacheMaxEntries: LoadCacheMaxEntries,
			DayFirst:        true,
			Location:        "Local",
		},
		Export: ExportConfig{
			ReportTitle:   ReportTitle,
			DocumentTitle: DocumentTitle,
			PDFTimeout:    PDFRenderTimeout,
		},
		Auth: AuthConfig{
			UsersFile:      DefaultUsersFile,
			SessionTimeout: SessionTimeout,
			SeedDefaults:   true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			ServiceVersion: AppVersion,
			Environment:    "production",
			TracingEnabled: false,
			MetricsEnabled: true,
			TraceExporter:  "none",
		},
	}
}
