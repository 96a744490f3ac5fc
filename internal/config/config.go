// internal/config/config.go
//
// Server configuration.
// Sources, lowest to highest precedence:
//   - built-in defaults
//   - optional app_config.json in the config directory
//   - environment variables (PORT, JWT_SECRET, ...; .env is loaded by main)

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Profile storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendDynamo = "dynamo"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev_secret_change_me"

type Config struct {
	Port           string `mapstructure:"port"`
	LogLevel       string `mapstructure:"log_level"`
	DatabasePath   string `mapstructure:"database_path"`
	ClientOrigin   string `mapstructure:"client_origin"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTExpiresDays int    `mapstructure:"jwt_expires_days"`
	CookieName     string `mapstructure:"cookie_name"`
	Production     bool   `mapstructure:"production"`
	DailySalt      string `mapstructure:"daily_salt"`
	WordsFile      string `mapstructure:"words_file"`

	ProfileBackend string `mapstructure:"profile_backend"`
	DynamoTable    string `mapstructure:"dynamo_table"`
	AWSRegion      string `mapstructure:"aws_region"`

	LobbyConnectDelay time.Duration `mapstructure:"lobby_connect_delay"`
	LobbyDemoRooms    bool          `mapstructure:"lobby_demo_rooms"`
}

var defaults = map[string]any{
	"port":                "5175",
	"log_level":           "info",
	"database_path":       "./data/hangman.db",
	"client_origin":       "http://localhost:5173",
	"jwt_secret":          DefaultJWTSecret,
	"jwt_expires_days":    14,
	"cookie_name":         "hangman_token",
	"production":          false,
	"daily_salt":          "local_dev_salt",
	"words_file":          "",
	"profile_backend":     BackendSQLite,
	"dynamo_table":        "",
	"aws_region":          "us-east-1",
	"lobby_connect_delay": "1s",
	"lobby_demo_rooms":    false,
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, _ := load(viper.New())
	return cfg
}

// Load reads dir/app_config.json (if present) and the environment.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("app_config")
	v.SetConfigType("json")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	v.AutomaticEnv()
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ProfileBackend = strings.ToLower(strings.TrimSpace(cfg.ProfileBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.ProfileBackend {
	case BackendSQLite, BackendMemory:
	case BackendDynamo:
		if c.DynamoTable == "" {
			return errors.New("config: dynamo profile backend needs DYNAMO_TABLE")
		}
	default:
		return fmt.Errorf("config: unknown profile backend %q", c.ProfileBackend)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("config: jwt_expires_days must be positive, got %d", c.JWTExpiresDays)
	}
	if c.LobbyConnectDelay < 0 {
		return errors.New("config: lobby_connect_delay must not be negative")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// InsecureSecret reports the development JWT secret in production.
func (c *Config) InsecureSecret() bool {
	return c.Production && c.JWTSecret == DefaultJWTSecret
}

// TokenTTL is the lifetime of auth tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
