package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Database drivers understood by [DatabaseConfig.Driver].
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Client   ClientConfig   `toml:"client"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	APIPrefix       string   `toml:"api_prefix"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
}

// DatabaseConfig contains storage backend settings.
type DatabaseConfig struct {
	Driver        string `toml:"driver"`
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	Seed          bool   `toml:"seed"`
}

// ClientConfig contains settings for CLI commands talking to a running server.
type ClientConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ShutdownGrace returns the configured shutdown timeout, defaulting to five seconds.
func (s ServerConfig) ShutdownGrace() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownDriver, c.Database.Driver)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if c.Server.APIPrefix != "" && !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return fmt.Errorf("%w: api_prefix must start with '/'", ErrInvalidConfig)
	}

	return nil
}

// ResolveConfig loads the config at path when it exists and falls back to defaults otherwise.
//
// A .env file in the working directory is loaded first, then CATALOG_* environment variables are applied on top.
func ResolveConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	return config, config.Validate()
}

// ApplyEnv overrides config values with CATALOG_* environment variables.
func ApplyEnv(c *Config) error {
	if v := env("CATALOG_HOST"); v != "" {
		c.Server.Host = v
	}

	if v := env("CATALOG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CATALOG_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	if v := env("CATALOG_API_PREFIX"); v != "" {
		c.Server.APIPrefix = "/" + strings.Trim(v, "/")
	}

	if v := env("CATALOG_DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}

	if v := env("CATALOG_DB_PATH"); v != "" {
		c.Database.Path = v
	}

	if v := env("CATALOG_MONGO_URI"); v != "" {
		c.Database.MongoURI = v
	}

	if v := env("CATALOG_MONGO_DATABASE"); v != "" {
		c.Database.MongoDatabase = v
	}

	if v := env("CATALOG_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := env("CATALOG_URL"); v != "" {
		c.Client.BaseURL = strings.TrimRight(v, "/")
	}

	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
