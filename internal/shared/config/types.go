package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// SourceConfig describes the helpdesk database the dashboard reads from.
// Credentials are optional: when Server is empty the dashboard can only be
// fed through the login form.
type SourceConfig struct {
	Server         string        `mapstructure:"server"`
	Database       string        `mapstructure:"database"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	SprintID       int           `mapstructure:"sprint_id"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	Encrypt        string        `mapstructure:"encrypt"`
	Retry          RetryConfig   `mapstructure:"retry"`
}

// HasCredentials reports whether a static connection is configured. SQL
// Server authentication needs a user, so a username is part of it.
func (s *SourceConfig) HasCredentials() bool {
	return strings.TrimSpace(s.Server) != "" &&
		strings.TrimSpace(s.Database) != "" &&
		strings.TrimSpace(s.Username) != ""
}

type RetryConfig struct {
	MaxAttempts     uint          `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type BucketConfig struct {
	Key   string `mapstructure:"key"`
	Label string `mapstructure:"label"`
	Codes []int  `mapstructure:"codes"`
}

type DashboardConfig struct {
	Title           string         `mapstructure:"title"`
	Trigger         string         `mapstructure:"trigger"`
	Layout          string         `mapstructure:"layout"`
	RefreshInterval time.Duration  `mapstructure:"refresh_interval"`
	Timezone        string         `mapstructure:"timezone"`
	Notes           string         `mapstructure:"notes"`
	Buckets         []BucketConfig `mapstructure:"buckets"`

	// LoginAttemptsPerMinute caps login submissions per client IP. Zero
	// disables the limit.
	LoginAttemptsPerMinute int `mapstructure:"login_attempts_per_minute"`
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}
