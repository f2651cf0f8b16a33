// Package config loads server settings from environment variables.
//
// Keys are read with envconfig into a flat struct of tagged fields, then
// arranged into the nested Config the server uses. Every key has a default
// except JWT_SECRET. A value of the wrong type stops loading at that key;
// values that parse but make no sense together are all reported at once.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/repository/gormrepo"
	"github.com/sakif/agency-backoffice/internal/service"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig

	DeletePolicy service.DeletePolicy
}

type AppConfig struct {
	Port        int
	Environment string
	LogLevel    slog.Level
}

type DatabaseConfig struct {
	Driver string // gormrepo.DriverSQLite or gormrepo.DriverPostgres
	Path   string // SQLite file
	URL    string // Postgres DSN
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == gormrepo.DriverPostgres {
		return d.URL
	}
	return d.Path
}

type AuthConfig struct {
	Disabled   bool
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

type RedisConfig struct {
	Addr     string // empty disables the cache
	Password string
	DB       int
	TTL      time.Duration
}

// env mirrors the environment one key per field. It stays flat because
// envconfig prefixes the keys of nested structs.
type env struct {
	Port        int        `envconfig:"PORT" default:"8080"`
	Environment string     `envconfig:"APP_ENV" default:"development"`
	LogLevel    slog.Level `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath      string `envconfig:"DB_PATH" default:"data/backoffice.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	AuthDisabled bool          `envconfig:"AUTH_DISABLED"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	AccessTTL    time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTTL   time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"24h"`
	BcryptCost   int           `envconfig:"BCRYPT_COST"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	DeletePolicy string `envconfig:"REFERENCE_DELETE_POLICY"`
}

var errInvalidEnv = errors.New("invalid environment")

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	// Fields without a default tag keep what is set here when the key is unset.
	e := env{BcryptCost: auth.DefaultCost}
	if err := envconfig.Process("", &e); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errInvalidEnv, err)
	}

	cfg := Config{
		App: AppConfig{
			Port:        e.Port,
			Environment: strings.ToLower(strings.TrimSpace(e.Environment)),
			LogLevel:    e.LogLevel,
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(e.DBDriver)),
			Path:   e.DBPath,
			URL:    strings.TrimSpace(e.DatabaseURL),
		},
		Auth: AuthConfig{
			Disabled:   e.AuthDisabled,
			JWTSecret:  e.JWTSecret,
			AccessTTL:  e.AccessTTL,
			RefreshTTL: e.RefreshTTL,
			BcryptCost: e.BcryptCost,
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(e.RedisAddr),
			Password: e.RedisPassword,
			DB:       e.RedisDB,
			TTL:      e.CacheTTL,
		},
	}

	policy, err := service.ParseDeletePolicy(e.DeletePolicy)
	problems := cfg.validate()
	if err != nil {
		problems = append(problems, fmt.Errorf("REFERENCE_DELETE_POLICY: %w", err))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%w: %w", errInvalidEnv, errors.Join(problems...))
	}
	cfg.DeletePolicy = policy
	return cfg, nil
}

// validate runs the range and cross-field checks a struct tag cannot express.
func (c Config) validate() []error {
	var problems []error
	bad := func(key, format string, args ...any) {
		problems = append(problems, fmt.Errorf("%s: "+format, append([]any{key}, args...)...))
	}

	if c.App.Port < 1 || c.App.Port > 65535 {
		bad("PORT", "%d is out of range", c.App.Port)
	}
	if c.App.Environment != EnvDevelopment && c.App.Environment != EnvProduction {
		bad("APP_ENV", "must be %q or %q", EnvDevelopment, EnvProduction)
	}

	switch c.Database.Driver {
	case gormrepo.DriverSQLite:
		if c.Database.Path == "" {
			bad("DB_PATH", "is required when DB_DRIVER=sqlite")
		}
	case gormrepo.DriverPostgres:
		if c.Database.URL == "" {
			bad("DATABASE_URL", "is required when DB_DRIVER=postgres")
		}
	default:
		bad("DB_DRIVER", "must be %q or %q", gormrepo.DriverSQLite, gormrepo.DriverPostgres)
	}

	// With auth off the server signs with an ephemeral secret instead.
	if !c.Auth.Disabled && len(c.Auth.JWTSecret) < auth.MinSecretLength {
		bad("JWT_SECRET", "must be at least %d characters (or set AUTH_DISABLED=true)", auth.MinSecretLength)
	}
	if c.Auth.AccessTTL <= 0 {
		bad("ACCESS_TOKEN_TTL", "%v is not a positive duration", c.Auth.AccessTTL)
	}
	if c.Auth.RefreshTTL <= 0 {
		bad("REFRESH_TOKEN_TTL", "%v is not a positive duration", c.Auth.RefreshTTL)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		bad("BCRYPT_COST", "must be between 4 and 31")
	}

	if c.Redis.DB < 0 {
		bad("REDIS_DB", "must not be negative")
	}
	if c.Redis.TTL <= 0 {
		bad("CACHE_TTL", "%v is not a positive duration", c.Redis.TTL)
	}
	return problems
}

// Production reports whether APP_ENV=production.
func (c Config) Production() bool {
	return c.App.Environment == EnvProduction
}
