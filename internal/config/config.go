package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "giftery"
	defaultEnvFile = "configs/.env"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	ClientID           int64         `mapstructure:"client_id"`
	ClientSecret       string        `mapstructure:"client_secret"`
	Endpoint           string        `mapstructure:"endpoint"`
	HTTPMethod         string        `mapstructure:"http_method"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables (GIFTERY_*) and an
// optional .env file. An empty envFile falls back to configs/.env.
func Load(envFile string) (*Config, error) {
	if strings.TrimSpace(envFile) == "" {
		_ = godotenv.Load(defaultEnvFile)
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	v.SetDefault("app_name", "giftery-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("client_id", 0)
	v.SetDefault("client_secret", "")
	v.SetDefault("endpoint", "https://ssl-api.giftery.ru")
	v.SetDefault("http_method", "get")
	v.SetDefault("http_timeout_seconds", 0) // transport default
	v.SetDefault("publishers_file", "")
	v.SetDefault("journal_type", "bbolt")
	v.SetDefault("journal_path", "./data/orders.db")
	v.SetDefault("journal_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.ClientID <= 0 {
		return fmt.Errorf("invalid client_id (must be a positive integer)")
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return fmt.Errorf("client_secret is required")
	}

	cfg.HTTPMethod = strings.ToLower(strings.TrimSpace(cfg.HTTPMethod))
	switch cfg.HTTPMethod {
	case "get", "post":
	default:
		return fmt.Errorf("invalid http_method %q (expected get or post)", cfg.HTTPMethod)
	}

	if cfg.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must not be negative)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return nil
}

// UsePost reports whether calls should be sent with POST.
func (cfg *Config) UsePost() bool {
	return cfg != nil && cfg.HTTPMethod == "post"
}
