package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultAccessTokenTTLMinutes = 24 * 60
	defaultLedgerConflictRetries = 3
	defaultLoginRateLimitPerMin  = 10
	defaultAIRateLimitPerMin     = 20
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// http
	CorsAllowedOrigins          []string `toml:"cors_allowed_origins"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	AIRateLimitAllowedPerMin    int      `toml:"ai_rate_limit_allowed_per_min"`
	AccessTokenTTLMinutes       int      `toml:"access_token_ttl_minutes"`

	// ledger
	CalendarDayLocation   string `toml:"calendar_day_location"`
	LedgerConflictRetries int    `toml:"ledger_conflict_retries"`

	// google calendar
	CalendarRedirectURI string `toml:"calendar_redirect_uri"`
	FrontendURL         string `toml:"frontend_url"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section selected by env,
// with defaults filled in.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.AccessTokenTTLMinutes <= 0 {
		c.AccessTokenTTLMinutes = defaultAccessTokenTTLMinutes
	}
	if c.LedgerConflictRetries <= 0 {
		c.LedgerConflictRetries = defaultLedgerConflictRetries
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = defaultLoginRateLimitPerMin
	}
	if c.AIRateLimitAllowedPerMin <= 0 {
		c.AIRateLimitAllowedPerMin = defaultAIRateLimitPerMin
	}
	if c.CalendarDayLocation == "" {
		c.CalendarDayLocation = "UTC"
	}
	if c.FrontendURL == "" {
		c.FrontendURL = "http://localhost:3001"
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name must be set")
	}
	if _, err := c.DayLocation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// DayLocation is the location in which ledger calendar days start at midnight.
func (c *Config) DayLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.CalendarDayLocation)
	if err != nil {
		return nil, fmt.Errorf("load calendar day location %q: %w", c.CalendarDayLocation, err)
	}
	return loc, nil
}
