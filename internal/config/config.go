package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	TimeZone        string        `mapstructure:"timezone"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"` // total time spent retrying the first connection
	LogQueries      bool          `mapstructure:"log_queries"`
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone,
	)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	AppName string `mapstructure:"app_name"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// InventoryConfig tunes the query layer
type InventoryConfig struct {
	DefaultLocation string `mapstructure:"default_location"`
	CountWorkers    int    `mapstructure:"count_workers"` // concurrent availability counts per listing
	MaxPageSize     int    `mapstructure:"max_page_size"`
}

// Config is the API configuration
type Config struct {
	Debug     bool            `mapstructure:"debug"`
	SentryDSN string          `mapstructure:"sentry_dsn"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Inventory InventoryConfig `mapstructure:"inventory"`
}

// Load reads config.yaml (if any), the .env file at envPath (if any) and
// PARTS_API_* environment variables, in increasing priority.
func Load(configFile string, envPath string) (*Config, error) {
	v := configureViper(configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.app_name", "Parts Inventory API")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "30s")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("inventory.default_location", "Parts Room")
	v.SetDefault("inventory.count_workers", 8)
	v.SetDefault("inventory.max_page_size", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyLegacyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Database.URL == "" && cfg.Database.Host == "" {
		return nil, errors.New("database.url or database.host is required")
	}

	return &cfg, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("PARTS_API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars binds every key so env-only setups unmarshal correctly
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"server.port",
		"server.app_name",
		"database.url",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.timezone",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.connect_timeout",
		"database.log_queries",
		"auth.jwt_secret",
		"auth.token_ttl",
		"inventory.default_location",
		"inventory.count_workers",
		"inventory.max_page_size",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// applyLegacyEnv honors the unprefixed variables older deployments set.
// Configured values win over them, except for the ports.
func applyLegacyEnv(cfg *Config) error {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&cfg.Database.URL, "DATABASE_URL")
	fill(&cfg.Database.Host, "DB_HOST")
	fill(&cfg.Database.User, "DB_USER")
	fill(&cfg.Database.Password, "DB_PASSWORD")
	fill(&cfg.Database.DBName, "DB_NAME")
	fill(&cfg.Auth.JWTSecret, "JWT_SECRET")

	if port := os.Getenv("DB_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", port, err)
		}
		cfg.Database.Port = n
	}
	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = n
	}
	return nil
}

func loadEnv(envPath string) {
	if envPath == "" {
		envPath = ".env"
	}
	if _, err := os.Stat(envPath); err == nil {
		_ = godotenv.Load(envPath)
	}
}
