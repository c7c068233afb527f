// Package config provides configuration management for policyscope.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"policyscope/internal/models"
)

// Configuration validation errors.
var (
	ErrNoSources             = errors.New("at least one source is required")
	ErrNoEnabledSources      = errors.New("at least one source must be enabled")
	ErrUnknownSourceKind     = errors.New("source kind is not a known Graph collection")
	ErrSourceMissingEndpoint = errors.New("source needs at least one endpoint")
	ErrInvalidBaseURL        = errors.New("graph.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout        = errors.New("graph.timeout_sec must be at least 1")
	ErrInvalidBufferSize     = errors.New("graph.buffer_size_kb must be at least 1")
	ErrInvalidConcurrency    = errors.New("graph.max_concurrency must be at least 1")
	ErrInvalidCacheBackend   = errors.New("cache.backend must be one of: file, redis, none")
	ErrMissingCachePath      = errors.New("cache.path is required for the file backend")
	ErrMissingRedisAddr      = errors.New("cache.redis_addr is required for the redis backend")
	ErrInvalidCacheTTL       = errors.New("cache.ttl_minutes must be at least 1")
	ErrMissingNotifySubject  = errors.New("notify.subject is required when notify.nats_url is set")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'text' or 'json'")
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config represents the complete policyscope configuration.
type Config struct {
	Graph   GraphConfig    `yaml:"graph"`
	Sources []SourceConfig `yaml:"sources"`
	Cache   CacheConfig    `yaml:"cache"`
	Server  ServerConfig   `yaml:"server"`
	Notify  NotifyConfig   `yaml:"notify"`
	Logging LoggingConfig  `yaml:"logging"`
}

// GraphConfig describes the Graph API connection.
type GraphConfig struct {
	BaseURL        string `yaml:"base_url"`
	TokenEnv       string `yaml:"token_env"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	BufferSizeKb   int    `yaml:"buffer_size_kb"`
	MaxConcurrency int    `yaml:"max_concurrency"`
}

// SourceConfig is one Graph collection to aggregate.
type SourceConfig struct {
	// Name labels the source in logs and failure reports. Defaults to the
	// collection's display name.
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// Endpoints are collection paths relative to graph.base_url. Records
	// from every endpoint are merged; the source fails only when all fail.
	Endpoints []string `yaml:"endpoints"`
	// Detail re-reads every item individually (settings catalog items with
	// $expand=settings).
	Detail bool `yaml:"detail"`
	// Assignments reads {endpoint}/{id}/assignments for every item.
	Assignments bool `yaml:"assignments"`
	Enabled     bool `yaml:"enabled"`
}

// CacheConfig defines where normalized policies are cached.
type CacheConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	RedisAddr  string `yaml:"redis_addr"`
	Key        string `yaml:"key"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NotifyConfig configures sync event publishing. Empty NatsURL disables it.
type NotifyConfig struct {
	NatsURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration that reads every known collection
// from the Graph beta endpoint.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			BaseURL:        "https://graph.microsoft.com/beta",
			TokenEnv:       "GRAPH_TOKEN",
			TimeoutSec:     30,
			BufferSizeKb:   8192,
			MaxConcurrency: 8,
		},
		Sources: []SourceConfig{
			{
				Kind:        string(models.SourceDeviceConfigurations),
				Endpoints:   []string{"deviceManagement/deviceConfigurations"},
				Enabled:     true,
				Detail:      true,
				Assignments: true,
			},
			{
				Kind:      string(models.SourceCompliancePolicies),
				Endpoints: []string{"deviceManagement/deviceCompliancePolicies"},
				Enabled:   true,
			},
			{
				Kind:      string(models.SourceManagedAppPolicies),
				Endpoints: []string{"deviceAppManagement/managedAppPolicies"},
				Enabled:   true,
			},
			{
				Kind:      string(models.SourceConfigurationPolicies),
				Endpoints: []string{"deviceManagement/configurationPolicies"},
				Enabled:   true,
				Detail:    true,
			},
			{
				Kind:      string(models.SourceGroupPolicyConfigurations),
				Endpoints: []string{"deviceManagement/groupPolicyConfigurations"},
				Enabled:   true,
			},
			{
				Kind:      string(models.SourceIntents),
				Endpoints: []string{"deviceManagement/intents"},
				Enabled:   true,
			},
			{
				Kind:      string(models.SourceDeviceEnrollmentConfigurations),
				Endpoints: []string{"deviceManagement/deviceEnrollmentConfigurations"},
				Enabled:   true,
			},
		},
		Cache: CacheConfig{
			Backend:    CacheFile,
			Path:       "policyscope-cache.json",
			RedisAddr:  "localhost:6379",
			Key:        "intune-policies-cache",
			TTLMinutes: 30,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Notify: NotifyConfig{
			Subject: "policyscope.sync",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	for i, src := range c.Sources {
		if !models.SourceKind(src.Kind).Valid() {
			return fmt.Errorf("%w: sources[%d] kind %q", ErrUnknownSourceKind, i, src.Kind)
		}

		if len(src.Endpoints) == 0 {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingEndpoint, i)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	u, err := url.Parse(c.Graph.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Graph.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Graph.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if c.Graph.MaxConcurrency < 1 {
		return ErrInvalidConcurrency
	}

	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Path == "" {
			return ErrMissingCachePath
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	case CacheNone:
	default:
		return ErrInvalidCacheBackend
	}

	if c.Cache.Backend != CacheNone && c.Cache.TTLMinutes < 1 {
		return ErrInvalidCacheTTL
	}

	if c.Notify.NatsURL != "" && c.Notify.Subject == "" {
		return ErrMissingNotifySubject
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// DisplayName returns Name, or the collection's display name when unset.
func (s *SourceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}

	return models.SourceKind(s.Kind).DisplayName()
}

// GetTimeout returns the Graph request timeout.
func (g *GraphConfig) GetTimeout() time.Duration {
	return time.Duration(g.TimeoutSec) * time.Second
}

// Token reads the bearer token from the configured environment variable.
func (g *GraphConfig) Token() string {
	return strings.TrimSpace(os.Getenv(g.TokenEnv))
}

// GetTTL returns the cache lifetime.
func (c *CacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, BaseURL: %s, Cache: %s}",
		len(c.Sources),
		c.Graph.BaseURL,
		c.Cache.Backend,
	)
}
