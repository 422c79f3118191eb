// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/driftline/internal/trajectory"
)

// Config is the root of the application configuration. Fields are exported
// so viper can unmarshal them; treat the struct as read-only after load.
type Config struct {
	Logger     LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Trajectory trajectory.Config `mapstructure:"trajectory" yaml:"trajectory"`
	Queue      QueueConfig       `mapstructure:"queue" yaml:"queue"`
	Worker     WorkerConfig      `mapstructure:"worker" yaml:"worker"`
	Solver     SolverConfig      `mapstructure:"solver" yaml:"solver"`
	Slider     SliderConfig      `mapstructure:"slider" yaml:"slider"`
	Metrics    MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// QueueConfig describes the Redis streams the task pipeline runs on.
type QueueConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	Password     string        `mapstructure:"password" yaml:"password"`
	DB           int           `mapstructure:"db" yaml:"db"`
	TaskStream   string        `mapstructure:"task_stream" yaml:"task_stream"`
	ResultStream string        `mapstructure:"result_stream" yaml:"result_stream"`
	Group        string        `mapstructure:"group" yaml:"group"`
	ClaimCount   int           `mapstructure:"claim_count" yaml:"claim_count"`
	ClaimBlock   time.Duration `mapstructure:"claim_block" yaml:"claim_block"`
}

// WorkerConfig sizes the generation worker pool.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// SolverConfig points at an external captcha-solving service. Token is
// sensitive; prefer the DRIFTLINE_SOLVER_TOKEN environment variable over
// the config file.
type SolverConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Token      string        `mapstructure:"token" yaml:"token"`
	SolverType string        `mapstructure:"solver_type" yaml:"solver_type"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst      int           `mapstructure:"burst" yaml:"burst"`
}

// SliderConfig tunes drag planning against slider captchas.
type SliderConfig struct {
	// Scale corrects the solver's reported offset for the rendered track
	// width; the track is usually drawn slightly narrower than the image.
	Scale       float64 `mapstructure:"scale" yaml:"scale"`
	MaxOffsetPx float64 `mapstructure:"max_offset_px" yaml:"max_offset_px"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

// SetDefaults populates a viper instance with the default settings for
// all modules.
func SetDefaults(v *viper.Viper) {
	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "driftline")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// Trajectory defaults mirror the generator's own DefaultConfig so the
	// file and flag surface stays in sync with the library.
	t := trajectory.DefaultConfig()
	v.SetDefault("trajectory.base_noise_amplitude", t.BaseNoiseAmplitude)
	v.SetDefault("trajectory.direction_change_probability", t.DirectionChangeProbability)
	v.SetDefault("trajectory.micro_correction_probability", t.MicroCorrectionProbability)
	v.SetDefault("trajectory.pause_probability", t.PauseProbability)
	v.SetDefault("trajectory.overshoot_probability", t.OvershootProbability)
	v.SetDefault("trajectory.speed_variation_min", t.SpeedVariationMin)
	v.SetDefault("trajectory.speed_variation_max", t.SpeedVariationMax)
	v.SetDefault("trajectory.avg_speed_min", t.AvgSpeedMin)
	v.SetDefault("trajectory.avg_speed_max", t.AvgSpeedMax)
	v.SetDefault("trajectory.max_acceleration", t.MaxAcceleration)
	v.SetDefault("trajectory.min_time_interval", t.MinTimeInterval)
	v.SetDefault("trajectory.max_time_interval", t.MaxTimeInterval)
	v.SetDefault("trajectory.bezier_control_range", t.BezierControlRange)
	v.SetDefault("trajectory.wander_amplitude", t.WanderAmplitude)

	// Queue defaults
	v.SetDefault("queue.addr", "localhost:6379")
	v.SetDefault("queue.db", 0)
	v.SetDefault("queue.task_stream", "driftline:tasks")
	v.SetDefault("queue.result_stream", "driftline:results")
	v.SetDefault("queue.group", "driftline-workers")
	v.SetDefault("queue.claim_count", 8)
	v.SetDefault("queue.claim_block", "5s")

	// Worker defaults
	v.SetDefault("worker.concurrency", 4)

	// Solver defaults
	v.SetDefault("solver.enabled", false)
	v.SetDefault("solver.solver_type", "slide")
	v.SetDefault("solver.timeout", "30s")
	v.SetDefault("solver.rate_limit", 2.0)
	v.SetDefault("solver.burst", 1)

	// Slider defaults
	v.SetDefault("slider.scale", 0.912)
	v.SetDefault("slider.max_offset_px", 400)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", ":9301")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data
	v.BindEnv("solver.token", "DRIFTLINE_SOLVER_TOKEN")
	v.BindEnv("queue.password", "DRIFTLINE_QUEUE_PASSWORD")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Trajectory.Validate(); err != nil {
		return fmt.Errorf("trajectory configuration invalid: %w", err)
	}
	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker.concurrency must be a positive integer")
	}
	if c.Queue.Addr == "" {
		return fmt.Errorf("queue.addr is a required configuration field")
	}
	if c.Queue.TaskStream == "" || c.Queue.ResultStream == "" || c.Queue.Group == "" {
		return fmt.Errorf("queue.task_stream, queue.result_stream, and queue.group are required")
	}
	if c.Queue.ClaimCount <= 0 {
		return fmt.Errorf("queue.claim_count must be a positive integer")
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver configuration invalid: %w", err)
	}
	if c.Slider.Scale <= 0 || c.Slider.Scale > 1 {
		return fmt.Errorf("slider.scale must be within (0, 1]")
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}
	return nil
}

// Validate checks the solver configuration.
func (s *SolverConfig) Validate() error {
	if !s.Enabled {
		return nil
	}
	if s.Endpoint == "" {
		return fmt.Errorf("solver.endpoint is required when the solver is enabled")
	}
	if s.Token == "" {
		return fmt.Errorf("solver token is required but not found. Ensure DRIFTLINE_SOLVER_TOKEN is set")
	}
	if s.RateLimit <= 0 {
		return fmt.Errorf("solver.rate_limit must be a positive request rate")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("solver.timeout must be a positive duration")
	}
	return nil
}
