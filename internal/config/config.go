package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/layered-configs/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultStoreBackend   = storage.BackendMemory
	defaultRedisAddr      = "127.0.0.1:6379"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	Port                 string
	DefaultsFiles        []string
	DefaultsEnvPrefix    string
	StoreBackend         string
	StoreFile            string
	Redis                RedisConfig
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	EnableMetrics        bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Timeout  time.Duration
}

// StoreOptions converts the store settings into storage.Options.
func (c Config) StoreOptions() storage.Options {
	return storage.Options{
		Backend: c.StoreBackend,
		Path:    c.StoreFile,
		Redis: storage.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Key:      c.Redis.Key,
			Timeout:  c.Redis.Timeout,
		},
	}
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Defaults             yamlDefaults  `yaml:"defaults"`
	Store                yamlStore     `yaml:"store"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	EnableMetrics        *bool         `yaml:"enable_metrics"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

type yamlDefaults struct {
	Files     []string `yaml:"files"`
	EnvPrefix string   `yaml:"env_prefix"`
}

type yamlStore struct {
	Backend string    `yaml:"backend"`
	File    string    `yaml:"file"`
	Redis   yamlRedis `yaml:"redis"`
}

type yamlRedis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	Key      string `yaml:"key"`
	Timeout  string `yaml:"timeout"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	DefaultsFiles  *string
	StoreBackend   *string
	StoreFile      *string
	RedisAddr      *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:         defaultPort,
		StoreBackend: defaultStoreBackend,
		Redis: RedisConfig{
			Addr:    defaultRedisAddr,
			Key:     storage.DefaultRedisKey,
			Timeout: 3 * time.Second,
		},
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		EnableMetrics:        true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Defaults.Files) > 0 {
		cfg.DefaultsFiles = yamlCfg.Defaults.Files
	}
	if yamlCfg.Defaults.EnvPrefix != "" {
		cfg.DefaultsEnvPrefix = yamlCfg.Defaults.EnvPrefix
	}

	if yamlCfg.Store.Backend != "" {
		cfg.StoreBackend = yamlCfg.Store.Backend
	}
	if yamlCfg.Store.File != "" {
		cfg.StoreFile = yamlCfg.Store.File
	}
	if yamlCfg.Store.Redis.Addr != "" {
		cfg.Redis.Addr = yamlCfg.Store.Redis.Addr
	}
	if yamlCfg.Store.Redis.Password != "" {
		cfg.Redis.Password = yamlCfg.Store.Redis.Password
	}
	if yamlCfg.Store.Redis.DB != nil {
		cfg.Redis.DB = *yamlCfg.Store.Redis.DB
	}
	if yamlCfg.Store.Redis.Key != "" {
		cfg.Redis.Key = yamlCfg.Store.Redis.Key
	}

	durations := []struct {
		name   string
		raw    string
		target *time.Duration
	}{
		{"store.redis.timeout", yamlCfg.Store.Redis.Timeout, &cfg.Redis.Timeout},
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.EnableMetrics != nil {
		cfg.EnableMetrics = *yamlCfg.EnableMetrics
	}

	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if files := strings.TrimSpace(os.Getenv("DEFAULTS_FILES")); files != "" {
		cfg.DefaultsFiles = splitList(files)
	}
	if prefix := strings.TrimSpace(os.Getenv("DEFAULTS_ENV_PREFIX")); prefix != "" {
		cfg.DefaultsEnvPrefix = prefix
	}

	if backend := strings.TrimSpace(os.Getenv("STORE_BACKEND")); backend != "" {
		cfg.StoreBackend = backend
	}
	if file := strings.TrimSpace(os.Getenv("STORE_FILE")); file != "" {
		cfg.StoreFile = file
	}

	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := strings.TrimSpace(os.Getenv("REDIS_DB")); db != "" {
		if value, err := strconv.Atoi(db); err == nil && value >= 0 {
			cfg.Redis.DB = value
		}
	}
	if key := strings.TrimSpace(os.Getenv("REDIS_KEY")); key != "" {
		cfg.Redis.Key = key
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.DefaultsFiles != nil && *overrides.DefaultsFiles != "" {
		cfg.DefaultsFiles = splitList(*overrides.DefaultsFiles)
	}

	if overrides.StoreBackend != nil && *overrides.StoreBackend != "" {
		cfg.StoreBackend = *overrides.StoreBackend
	}

	if overrides.StoreFile != nil && *overrides.StoreFile != "" {
		cfg.StoreFile = *overrides.StoreFile
	}

	if overrides.RedisAddr != nil && *overrides.RedisAddr != "" {
		cfg.Redis.Addr = *overrides.RedisAddr
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if !storage.ValidBackend(cfg.StoreBackend) {
		return fmt.Errorf("store backend %q must be one of %s", cfg.StoreBackend, strings.Join(storage.Backends(), ", "))
	}
	switch strings.ToLower(strings.TrimSpace(cfg.StoreBackend)) {
	case storage.BackendFile:
		if strings.TrimSpace(cfg.StoreFile) == "" {
			return fmt.Errorf("file store backend requires STORE_FILE")
		}
	case storage.BackendRedis:
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			return fmt.Errorf("redis store backend requires REDIS_ADDR")
		}
	}
	return nil
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
