// Package config loads the YAML file that describes a connection, its
// statement builders and logging.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Konsultn-Engineering/sqlstmt/cache"
	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/message"
	"github.com/Konsultn-Engineering/sqlstmt/service"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Log           LogConfig        `json:"log" yaml:"log"`
	Connection    connector.Config `json:"connection" yaml:"connection"`
	IDGenerator   string           `json:"id_generator,omitempty" yaml:"id_generator,omitempty"`
	PlanCacheSize int              `json:"plan_cache_size,omitempty" yaml:"plan_cache_size,omitempty"`
	Services      []service.Spec   `json:"services" yaml:"services"`
}

type LogConfig struct {
	Level       string `json:"level,omitempty" yaml:"level,omitempty"`
	Development bool   `json:"development,omitempty" yaml:"development,omitempty"`
	Encoding    string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Only the braced form is expanded; a bare '$' is legal in statements.
var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(data []byte) []byte {
	return envReference.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

// Parse decodes data after expanding ${VAR} references from the environment.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(expandEnv(data), &cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Connection.Validate(); err != nil {
		return fmt.Errorf("connection: %w", err)
	}
	if _, err := message.LookupGenerator(c.IDGenerator); err != nil {
		return err
	}
	if c.PlanCacheSize < 0 {
		return fmt.Errorf("invalid plan cache size: %d", c.PlanCacheSize)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	for _, s := range c.Services {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	dup := lo.FindDuplicatesBy(c.Services, func(s service.Spec) string { return s.Name })
	if len(dup) > 0 {
		return fmt.Errorf("duplicate service names: %s", strings.Join(lo.Map(dup, func(s service.Spec, _ int) string { return s.Name }), ", "))
	}
	return nil
}

// Service finds a builder spec by name.
func (c *Config) Service(name string) (service.Spec, bool) {
	return lo.Find(c.Services, func(s service.Spec) bool { return s.Name == name })
}

// ServiceNames lists the configured builders in file order.
func (c *Config) ServiceNames() []string {
	return lo.Map(c.Services, func(s service.Spec, _ int) string { return s.Name })
}

// MessageFactory creates messages with the configured id generator.
func (c *Config) MessageFactory() (*message.Factory, error) {
	gen, err := message.LookupGenerator(c.IDGenerator)
	if err != nil {
		return nil, err
	}
	return message.NewFactory(gen), nil
}

// PlanCache returns a plan cache sized from the config.
func (c *Config) PlanCache() *cache.PlanCache {
	return cache.NewPlanCache(c.PlanCacheSize)
}

func (l LogConfig) level() (zapcore.Level, error) {
	if l.Level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Logger builds a zap logger: the development preset when Development is set,
// the production preset otherwise.
func (l LogConfig) Logger() (*zap.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableCaller = true
	if l.Encoding != "" {
		zc.Encoding = l.Encoding
	}
	return zc.Build()
}
