package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the client configuration
type Config struct {
	// Server configuration
	ServerURL string `mapstructure:"server_url"`

	// API scope configuration. Requests whose path begins with APIPrefix
	// get credential attachment and 401 handling; everything else passes
	// through untouched.
	APIPrefix string `mapstructure:"api_prefix"`

	// Auth endpoint paths (relative to ServerURL)
	LoginPath   string `mapstructure:"login_path"`
	RefreshPath string `mapstructure:"refresh_path"`
	LogoutPath  string `mapstructure:"logout_path"`

	// Credential store configuration
	StoreBackend string `mapstructure:"store_backend"` // memory, file, sqlite, redis
	StoreFile    string `mapstructure:"store_file"`
	DatabasePath string `mapstructure:"database_path"`

	// Redis store configuration (store_backend = redis)
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Request timing
	RequestTimeout int `mapstructure:"request_timeout"` // seconds
	RevokeTimeout  int `mapstructure:"revoke_timeout"`  // seconds, bounds the fire-and-forget logout call

	// Search-as-you-type quiet period
	DebounceInterval int `mapstructure:"debounce_interval"` // milliseconds

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:        "http://localhost:8000",
		APIPrefix:        "/api/",
		LoginPath:        "/api/auth/login/",
		RefreshPath:      "/api/auth/token/refresh/",
		LogoutPath:       "/api/auth/logout/",
		StoreBackend:     "file",
		StoreFile:        defaultStoreFile(),
		DatabasePath:     "./freelance-client.db",
		RedisAddr:        "localhost:6379",
		RedisPassword:    "",
		RedisDB:          0,
		RequestTimeout:   30,
		RevokeTimeout:    5,
		DebounceInterval: 300,
		LogLevel:         "info",
		LogFile:          "",
	}
}

func defaultStoreFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".freelance-client", "credentials.json")
	}
	return "./credentials.json"
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/freelance-client")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".freelance-client"))
		}
	}

	v.SetEnvPrefix("FREELANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("api_prefix", cfg.APIPrefix)
	v.SetDefault("login_path", cfg.LoginPath)
	v.SetDefault("refresh_path", cfg.RefreshPath)
	v.SetDefault("logout_path", cfg.LogoutPath)
	v.SetDefault("store_backend", cfg.StoreBackend)
	v.SetDefault("store_file", cfg.StoreFile)
	v.SetDefault("database_path", cfg.DatabasePath)
	v.SetDefault("redis_addr", cfg.RedisAddr)
	v.SetDefault("redis_password", cfg.RedisPassword)
	v.SetDefault("redis_db", cfg.RedisDB)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("revoke_timeout", cfg.RevokeTimeout)
	v.SetDefault("debounce_interval", cfg.DebounceInterval)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_file", cfg.LogFile)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}

	if c.APIPrefix == "" || !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api_prefix must be a non-empty path starting with /")
	}

	for name, p := range map[string]string{
		"login_path":   c.LoginPath,
		"refresh_path": c.RefreshPath,
		"logout_path":  c.LogoutPath,
	} {
		if !strings.HasPrefix(p, c.APIPrefix) {
			return fmt.Errorf("%s must be under api_prefix %q", name, c.APIPrefix)
		}
	}

	switch c.StoreBackend {
	case "memory", "file", "sqlite", "redis":
	default:
		return fmt.Errorf("store_backend must be one of: memory, file, sqlite, redis")
	}

	if c.StoreBackend == "file" && c.StoreFile == "" {
		return fmt.Errorf("store_file is required for the file store backend")
	}

	if c.StoreBackend == "sqlite" && c.DatabasePath == "" {
		return fmt.Errorf("database_path is required for the sqlite store backend")
	}

	if c.StoreBackend == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required for the redis store backend")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.RevokeTimeout <= 0 {
		return fmt.Errorf("revoke_timeout must be positive")
	}

	if c.DebounceInterval <= 0 {
		return fmt.Errorf("debounce_interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	return nil
}

// RequestTimeoutDuration returns the request timeout as a duration
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// RevokeTimeoutDuration returns the revoke timeout as a duration
func (c *Config) RevokeTimeoutDuration() time.Duration {
	return time.Duration(c.RevokeTimeout) * time.Second
}

// DebounceIntervalDuration returns the debounce quiet period as a duration
func (c *Config) DebounceIntervalDuration() time.Duration {
	return time.Duration(c.DebounceInterval) * time.Millisecond
}
