package connector

import (
	"fmt"
	"time"
)

// Config represents database connection configuration.
type Config struct {
	Provider       string            `json:"provider" yaml:"provider"`
	Driver         string            `json:"driver,omitempty" yaml:"driver,omitempty"`
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen            int           `json:"max_open" yaml:"max_open"`
	MaxIdle            int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime        time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime        time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
	HealthCheckFreq    time.Duration `json:"health_check_freq" yaml:"health_check_freq"`
	StatementCacheSize int           `json:"statement_cache_size" yaml:"statement_cache_size"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// Validate checks the fields every provider needs.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		return fmt.Errorf("pool sizes must not be negative")
	}
	if r := c.Retry; r != nil {
		if r.MaxRetries < 0 {
			return fmt.Errorf("invalid max retries: %d", r.MaxRetries)
		}
		if r.Backoff != 0 && r.Backoff < 1 {
			return fmt.Errorf("invalid backoff factor: %g", r.Backoff)
		}
	}
	return nil
}
