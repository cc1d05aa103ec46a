package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/clinsight/bleedrisk/internal/assessment"
)

// Config is the full runtime configuration of the service. Every value has
// a shipped default and can be overridden via config.yaml or a BLEEDRISK_*
// environment variable (e.g. BLEEDRISK_RISK_DECISION_THRESHOLD).
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	EnableHSTS      bool          `mapstructure:"enable_hsts"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ModelConfig points at the serialized model bundle.
type ModelConfig struct {
	BundlePath string `mapstructure:"bundle_path"`
}

// RiskConfig carries the classification decision points. These are named,
// overridable settings rather than hardwired constants so the decision
// threshold chosen during model validation can be tuned without a rebuild.
type RiskConfig struct {
	DecisionThreshold float64 `mapstructure:"decision_threshold"`
	ModerateFloor     float64 `mapstructure:"moderate_floor"`
	HighFloor         float64 `mapstructure:"high_floor"`
}

// Thresholds converts the configured cutoffs into assessment thresholds.
func (r RiskConfig) Thresholds() assessment.Thresholds {
	return assessment.Thresholds{
		Decision:      r.DecisionThreshold,
		ModerateFloor: r.ModerateFloor,
		HighFloor:     r.HighFloor,
	}
}

// CacheConfig controls the in-memory assessment response cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig controls per-IP rate limiting of the assess endpoint.
type RateLimitConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	RedisAddr      string `mapstructure:"redis_addr"`
	RequestsPerMin int    `mapstructure:"requests_per_min"`
	Burst          int    `mapstructure:"burst"`
}

// Load reads configuration from config.yaml (optional) and BLEEDRISK_*
// environment variables, applying shipped defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bleedrisk/")

	v.SetEnvPrefix("BLEEDRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file: defaults plus environment variables.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Model.BundlePath == "" {
		return fmt.Errorf("model.bundle_path must not be empty")
	}
	if err := c.Risk.Thresholds().Validate(); err != nil {
		return fmt.Errorf("risk config: %w", err)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate_limit.requests_per_min must be positive when rate limiting is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.enable_hsts", false)

	v.SetDefault("model.bundle_path", "./data/bleed_model.json")

	defaults := assessment.DefaultThresholds()
	v.SetDefault("risk.decision_threshold", defaults.Decision)
	v.SetDefault("risk.moderate_floor", defaults.ModerateFloor)
	v.SetDefault("risk.high_floor", defaults.HighFloor)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "15m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.redis_addr", "")
	v.SetDefault("rate_limit.requests_per_min", 60)
	v.SetDefault("rate_limit.burst", 10)
}
