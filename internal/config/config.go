// ABOUTME: Configuration loading and parsing for the maze services and gateway
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the complete configuration of one service process
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Upstreams UpstreamsConfig `yaml:"upstreams" toml:"upstreams"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`

	// LegacyStatus answers every request with 200 and leaves failure
	// detection to the envelope's "ok" field.
	LegacyStatus bool `yaml:"legacy_status" toml:"legacy_status"`

	ReadHeaderTimeout    time.Duration `yaml:"-" toml:"-"`
	ReadHeaderTimeoutRaw string        `yaml:"read_header_timeout" toml:"read_header_timeout"`
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	Driver         string `yaml:"driver" toml:"driver"`
	Host           string `yaml:"host" toml:"host"`
	Port           int    `yaml:"port" toml:"port"`
	Name           string `yaml:"name" toml:"name"`
	User           string `yaml:"user" toml:"user"`
	Password       string `yaml:"password" toml:"password"`
	SSLMode        string `yaml:"sslmode" toml:"sslmode"`
	Path           string `yaml:"path" toml:"path"` // sqlite only
	MaxOpenConns   int    `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns   int    `yaml:"max_idle_conns" toml:"max_idle_conns"`
	CreateDatabase bool   `yaml:"create_database" toml:"create_database"`

	ConnMaxLifetime    time.Duration `yaml:"-" toml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
}

// UpstreamsConfig holds the gateway's upstream service addresses
type UpstreamsConfig struct {
	UserURL string `yaml:"user_url" toml:"user_url"`
	GrueURL string `yaml:"grue_url" toml:"grue_url"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// AuthConfig holds optional bearer-token authentication configuration.
// An empty JWTSecret disables authentication.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret"`

	TokenTTL    time.Duration `yaml:"-" toml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl" toml:"token_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// ServiceDefaults are the per-service values layered under the config file.
type ServiceDefaults struct {
	// EnvPrefix selects the <PREFIX>_DB_RESOURCE_HOST and
	// <PREFIX>_DB_RESOURCE_PORT overrides. Empty disables them.
	EnvPrefix    string
	DatabaseName string
}

// Default returns a configuration that runs without any config file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:             ":5000",
			ReadHeaderTimeoutRaw: "10s",
		},
		Database: DatabaseConfig{
			Driver:             DriverPostgres,
			Host:               "postgres",
			Port:               5432,
			Name:               "maze",
			User:               "postgres",
			Password:           "postgres",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeRaw: "5m",
		},
		Upstreams: UpstreamsConfig{
			UserURL:    "http://usersvc:5000",
			GrueURL:    "http://gruesvc:5000",
			TimeoutRaw: "10s",
		},
		Auth: AuthConfig{
			TokenTTLRaw: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// An empty path yields the defaults. Environment variables in the format
// ${VAR_NAME} are expanded. Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	return LoadFor(path, ServiceDefaults{})
}

// LoadFor is Load with per-service defaults and environment overrides.
func LoadFor(path string, svc ServiceDefaults) (*Config, error) {
	cfg := Default()
	if svc.DatabaseName != "" {
		cfg.Database.Name = svc.DatabaseName
	}

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(svc.EnvPrefix); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// decodeFile decodes YAML, or TOML when the file has a .toml extension, over cfg.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
		return nil
	}

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnv applies the <prefix>_DB_RESOURCE_HOST / _PORT overrides.
func (c *Config) applyEnv(prefix string) error {
	if prefix == "" {
		return nil
	}

	if host := os.Getenv(prefix + "_DB_RESOURCE_HOST"); host != "" {
		c.Database.Host = host
	}

	if raw := os.Getenv(prefix + "_DB_RESOURCE_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s_DB_RESOURCE_PORT %q is not a number", prefix, raw)
		}
		c.Database.Port = port
	}

	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for the postgres driver")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("database.port %d is out of range", c.Database.Port)
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database connection limits must not be negative")
	}

	for name, raw := range map[string]string{
		"upstreams.user_url": c.Upstreams.UserURL,
		"upstreams.grue_url": c.Upstreams.GrueURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must use http or https scheme", name)
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_header_timeout", cfg.Server.ReadHeaderTimeoutRaw, &cfg.Server.ReadHeaderTimeout},
		{"database.conn_max_lifetime", cfg.Database.ConnMaxLifetimeRaw, &cfg.Database.ConnMaxLifetime},
		{"upstreams.timeout", cfg.Upstreams.TimeoutRaw, &cfg.Upstreams.Timeout},
		{"auth.token_ttl", cfg.Auth.TokenTTLRaw, &cfg.Auth.TokenTTL},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = d
	}

	return nil
}

// DSN returns the driver-specific data source name for the configured database.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return sqliteDSN(d.Path)
	}
	return d.postgresDSN(d.Name)
}

// AdminDSN returns a DSN for the postgres maintenance database, used to
// create the configured database when it does not exist yet.
func (d DatabaseConfig) AdminDSN() string {
	return d.postgresDSN("postgres")
}

func (d DatabaseConfig) postgresDSN(dbname string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + dbname,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// sqliteDSN enables WAL, a busy timeout, and BEGIN IMMEDIATE so concurrent
// writers serialize instead of failing with SQLITE_BUSY mid-transaction.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}
