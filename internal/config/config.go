// Package config loads runtime configuration from the environment. It is read
// only by cmd/main.go.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AttributesTable string        `env:"ATTRIBUTES_TABLE,required"`
	ParamPrefix     string        `env:"PARAM_PREFIX"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	PendingTTL      time.Duration `env:"PENDING_TTL"      envDefault:"1h"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"2s"`
	LogLevel        slog.Level    `env:"LOG_LEVEL"        envDefault:"info"`
	OTelEndpoint    string        `env:"OTEL_ENDPOINT"`
}

// RedisAuthParam is the SSM parameter holding the Redis password.
func (c Config) RedisAuthParam() string {
	return strings.TrimSuffix(c.ParamPrefix, "/") + "/redis-auth"
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.PendingTTL <= 0 {
		return Config{}, fmt.Errorf("config: PENDING_TTL must be positive, got %s", cfg.PendingTTL)
	}
	if cfg.WriteTimeout <= 0 {
		return Config{}, fmt.Errorf("config: WRITE_TIMEOUT must be positive, got %s", cfg.WriteTimeout)
	}
	if cfg.RedisAddr != "" && cfg.ParamPrefix == "" {
		return Config{}, fmt.Errorf("config: PARAM_PREFIX is required when REDIS_ADDR is set")
	}
	return cfg, nil
}
