package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment" validate:"oneof=development staging production"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`

	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	Redis        RedisConfig        `koanf:"redis"`
	Monitoring   MonitoringConfig   `koanf:"monitoring"`
	Notification NotificationConfig `koanf:"notification"`
}

type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxConns        int           `koanf:"max_conns" validate:"gt=0"`
	MinConns        int           `koanf:"min_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	MaxRetries   int           `koanf:"max_retries"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// MonitoringConfig carries the anomaly thresholds and the two retention
// policies. The evaluation window must stay tighter than the activity
// retention so late evaluation never misses stored entries.
type MonitoringConfig struct {
	EvaluationWindow     time.Duration `koanf:"evaluation_window" validate:"gt=0"`
	RateLimitThreshold   int           `koanf:"rate_limit_threshold" validate:"gt=0"`
	AuthFailureThreshold int           `koanf:"auth_failure_threshold" validate:"gt=0"`
	PhiAccessThreshold   int           `koanf:"phi_access_threshold" validate:"gt=0"`
	ActivityRetention    time.Duration `koanf:"activity_retention" validate:"gt=0"`
	EventRetentionDays   int           `koanf:"event_retention_days" validate:"gt=0"`
	MaxEventsPerUser     int           `koanf:"max_events_per_user" validate:"gt=0"`
	StoreTimeout         time.Duration `koanf:"store_timeout" validate:"gt=0"`
	SessionTTL           time.Duration `koanf:"session_ttl" validate:"gt=0"`
	// ErrorLogRetentionDays is accepted but unused: error log entries are
	// append-only and never pruned in the reference behavior.
	ErrorLogRetentionDays int `koanf:"error_log_retention_days"`
}

type NotificationConfig struct {
	WebhookURL    string        `koanf:"webhook_url"`
	Recipient     string        `koanf:"recipient"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerMinute int           `koanf:"rate_per_minute" validate:"gte=0"`
	Burst         int           `koanf:"burst" validate:"gte=0"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:        25,
			MinConns:        2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          "localhost:6379",
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Monitoring: MonitoringConfig{
			EvaluationWindow:     60 * time.Second,
			RateLimitThreshold:   50,
			AuthFailureThreshold: 5,
			PhiAccessThreshold:   100,
			ActivityRetention:    5 * time.Minute,
			EventRetentionDays:   90,
			MaxEventsPerUser:     1000,
			StoreTimeout:         2 * time.Second,
			SessionTTL:           10 * time.Minute,
		},
		Notification: NotificationConfig{
			Timeout:       10 * time.Second,
			RatePerMinute: 10,
			Burst:         5,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = "configs/config.yaml"
	}
	// Config file is optional; env vars and defaults cover the rest.
	_ = k.Load(file.Provider(path), yaml.Parser())

	// PF_DATABASE__URL maps to database.url; a single underscore stays part
	// of the key so names like log_level survive.
	if err := k.Load(env.Provider("PF_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "PF_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if cfg.Monitoring.EvaluationWindow >= cfg.Monitoring.ActivityRetention {
		return nil, fmt.Errorf("evaluation window %v must be shorter than activity retention %v",
			cfg.Monitoring.EvaluationWindow, cfg.Monitoring.ActivityRetention)
	}

	return &cfg, nil
}
