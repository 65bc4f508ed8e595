package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv   string `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr string `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	// HomeDir holds the sqlite database and default export directories.
	HomeDir     string `mapstructure:"HOME_DIR" validate:"required"`
	DBDriver    string `mapstructure:"DB_DRIVER" validate:"required,oneof=sqlite mysql"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`

	JWTSecret   string `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	JWTIssuer   string `mapstructure:"JWT_ISSUER" validate:"required"`
	JWTAudience string `mapstructure:"JWT_AUDIENCE" validate:"required"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME" validate:"required"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	RunStatusTTL    time.Duration `mapstructure:"RUN_STATUS_TTL" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

var (
	cfg      *Config
	validate = validator.New(validator.WithRequiredStructEnabled())
)

var keys = []string{
	"APP_ENV",
	"HTTP_ADDR",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"HOME_DIR",
	"DB_DRIVER",
	"DATABASE_DSN",
	"JWT_SECRET",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"ADMIN_USERNAME",
	"ADMIN_PASSWORD",
	"RUN_STATUS_TTL",
	"SHUTDOWN_TIMEOUT",
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".paddlelabel"
	}
	return filepath.Join(home, ".paddlelabel")
}

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "127.0.0.1:17995")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("HOME_DIR", defaultHome())
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "development-insecure-secret-change-me")
	v.SetDefault("JWT_ISSUER", "paddlelabel")
	v.SetDefault("JWT_AUDIENCE", "paddlelabel-clients")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("RUN_STATUS_TTL", "1h")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	// Optional config file
	_ = v.ReadInConfig()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(c.HomeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create home dir %s: %w", c.HomeDir, err)
	}
	if c.DatabaseDSN == "" {
		if c.DBDriver != "sqlite" {
			return nil, fmt.Errorf("invalid configuration: DATABASE_DSN is required for %s", c.DBDriver)
		}
		c.DatabaseDSN = c.SQLitePath()
	}

	cfg = &c
	return cfg, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// Get returns the loaded configuration. Panics if not loaded.
func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call config.Load or config.MustLoad first")
	}
	return cfg
}

// SQLitePath is the default database file under HomeDir.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.HomeDir, "paddlelabel.db")
}
