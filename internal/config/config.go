package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	SRS      SRSConfig      `yaml:"srs"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CleanupConfig controls the offline hard-delete job (cmd/cleanup).
type CleanupConfig struct {
	HardDeleteRetentionDays int `yaml:"hard_delete_retention_days" env:"CLEANUP_RETENTION_DAYS" env-default:"30"`
}

// SRSConfig holds spaced-repetition scheduler parameters.
type SRSConfig struct {
	DesiredRetention   float64 `yaml:"desired_retention"     env:"SRS_DESIRED_RETENTION"     env-default:"0.9"`
	MaxIntervalDays    int     `yaml:"max_interval_days"     env:"SRS_MAX_INTERVAL"          env-default:"36500"`
	EnableFuzz         bool    `yaml:"enable_fuzz"           env:"SRS_ENABLE_FUZZ"           env-default:"true"`
	LearningStepsRaw   string  `yaml:"learning_steps"        env:"SRS_LEARNING_STEPS"        env-default:"1m,10m"`
	RelearningStepsRaw string  `yaml:"relearning_steps"      env:"SRS_RELEARNING_STEPS"      env-default:"10m"`
	NewCardsPerSession int     `yaml:"new_cards_per_session" env:"SRS_NEW_CARDS_PER_SESSION" env-default:"20"`

	// WeightsRaw optionally overrides the built-in model weights as a
	// comma-separated list of 19 floats. Empty keeps the defaults.
	WeightsRaw string `yaml:"weights" env:"SRS_WEIGHTS"`

	// LearningSteps is parsed from LearningStepsRaw during validation.
	LearningSteps []time.Duration `yaml:"-" env:"-"`
	// RelearningSteps is parsed from RelearningStepsRaw during validation.
	RelearningSteps []time.Duration `yaml:"-" env:"-"`
	// Weights is parsed from WeightsRaw during validation; nil means defaults.
	Weights []float64 `yaml:"-" env:"-"`
}
