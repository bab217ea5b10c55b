package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "github.com/Picoli-Igor/Dash2/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Source    sharedConfig.SourceConfig    `mapstructure:"source"`
	Dashboard sharedConfig.DashboardConfig `mapstructure:"dashboard"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Metrics   sharedConfig.MetricsConfig   `mapstructure:"metrics"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error: defaults and DASH2_* variables apply.
func Load(env string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("DASH2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate checks the cross-field rules viper cannot express.
func (c *Config) Validate() error {
	switch c.Dashboard.Trigger {
	case "timer":
		if !c.Source.HasCredentials() {
			return fmt.Errorf("dashboard.trigger=timer requires source.server, source.database and source.username")
		}
	case "login":
	default:
		return fmt.Errorf("dashboard.trigger must be timer or login, got %q", c.Dashboard.Trigger)
	}

	switch c.Dashboard.Layout {
	case "basic", "summary", "sprint":
	default:
		return fmt.Errorf("dashboard.layout must be basic, summary or sprint, got %q", c.Dashboard.Layout)
	}

	if c.Dashboard.RefreshInterval < time.Second {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1s")
	}
	if c.Dashboard.LoginAttemptsPerMinute < 0 {
		return fmt.Errorf("dashboard.login_attempts_per_minute must not be negative")
	}
	if c.Source.QueryTimeout <= 0 {
		return fmt.Errorf("source.query_timeout must be positive")
	}
	if c.Source.SprintID <= 0 {
		return fmt.Errorf("source.sprint_id must be positive")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.mode", "debug")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Source defaults
	v.SetDefault("source.server", "")
	v.SetDefault("source.database", "")
	v.SetDefault("source.username", "")
	v.SetDefault("source.password", "")
	v.SetDefault("source.sprint_id", 187)
	v.SetDefault("source.connect_timeout", 15*time.Second)
	v.SetDefault("source.query_timeout", 30*time.Second)
	v.SetDefault("source.encrypt", "disable")
	v.SetDefault("source.retry.max_attempts", 3)
	v.SetDefault("source.retry.initial_interval", 500*time.Millisecond)
	v.SetDefault("source.retry.max_interval", 5*time.Second)
	v.SetDefault("source.retry.multiplier", 2.0)
	v.SetDefault("source.retry.max_elapsed_time", 45*time.Second)

	// Dashboard defaults
	v.SetDefault("dashboard.title", "SS Soluções")
	v.SetDefault("dashboard.trigger", "login")
	v.SetDefault("dashboard.layout", "sprint")
	v.SetDefault("dashboard.refresh_interval", 60*time.Second)
	v.SetDefault("dashboard.timezone", "America/Sao_Paulo")
	v.SetDefault("dashboard.notes", "")
	v.SetDefault("dashboard.login_attempts_per_minute", 10)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "dash2:snapshot:")
	v.SetDefault("redis.snapshot_ttl", 10*time.Minute)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "dash2")
}
