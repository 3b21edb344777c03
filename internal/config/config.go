// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-sql-driver/mysql"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppHost string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Database holding the usuarios table
	Database DatabaseConfig

	// Cache (Redis), optional. Only used for rate limiting.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for /usuarios (per client IP, requires REDIS_URL)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"40"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Honour X-Forwarded-For / X-Real-IP. Only safe behind a proxy that
	// overwrites them; otherwise clients pick their own rate limit key.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
}

// DatabaseConfig describes how to reach the users database.
// Defaults match the docker-compose setup the service ships with.
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"mysql"`
	Host     string `env:"DB_HOST" envDefault:"db"`
	Port     int    `env:"DB_PORT" envDefault:"0"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASSWORD" envDefault:"1234"`
	Name     string `env:"DB_NAME" envDefault:"mi_base"`

	// URL overrides every field above except Driver when set.
	URL string `env:"DATABASE_URL" envDefault:""`

	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// RateLimitActive reports whether IP rate limiting can run.
func (c *Config) RateLimitActive() bool {
	return c.RateLimitEnabled && c.RedisURL != ""
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks settings env parsing cannot express.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.AppPort)
	}

	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		return fmt.Errorf("rate limit requires positive RATE_LIMIT_RPS and RATE_LIMIT_BURST")
	}

	return nil
}

// port returns the configured port or the driver's well-known default.
func (d DatabaseConfig) port() int {
	if d.Port != 0 {
		return d.Port
	}
	switch d.Driver {
	case DriverPgx, DriverPostgres:
		return 5432
	default:
		return 3306
	}
}

// DSN returns the data source name for the configured driver.
// A mysql DATABASE_URL always gets parseTime and, when missing, the
// configured dial timeout.
func (d DatabaseConfig) DSN() string {
	if d.URL == "" {
		return d.build(d.Password)
	}
	if d.Driver != DriverMySQL {
		return d.URL
	}

	mc, err := mysql.ParseDSN(d.URL)
	if err != nil {
		// Left as is so the driver reports the parse error on connect.
		return d.URL
	}
	mc.ParseTime = true
	if mc.Timeout == 0 {
		mc.Timeout = d.ConnectTimeout
	}
	return mc.FormatDSN()
}

// Redacted returns the DSN with the password masked, safe for logs.
func (d DatabaseConfig) Redacted() string {
	if d.URL != "" {
		return redactURL(d.URL)
	}
	if d.Password == "" {
		return d.build("")
	}
	return d.build("xxxxx")
}

func (d DatabaseConfig) build(password string) string {
	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.port()))

	switch d.Driver {
	case DriverSQLite:
		return d.Name
	case DriverPgx, DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			Host:     addr,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		if password != "" {
			u.User = url.UserPassword(d.User, password)
		} else {
			u.User = url.User(d.User)
		}
		return u.String()
	default:
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = d.Name
		mc.ParseTime = true
		mc.Timeout = d.ConnectTimeout
		return mc.FormatDSN()
	}
}

// redactURL masks credentials in URL-shaped DSNs. DSNs that are not URLs
// (mysql style) are parsed with the mysql driver instead.
func redactURL(raw string) string {
	if mc, err := mysql.ParseDSN(raw); err == nil && !strings.Contains(raw, "://") {
		if mc.Passwd != "" {
			mc.Passwd = "xxxxx"
		}
		return mc.FormatDSN()
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if _, ok := parsed.User.Password(); ok {
			parsed.User = url.UserPassword(parsed.User.Username(), "xxxxx")
		}
	}

	return parsed.String()
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
