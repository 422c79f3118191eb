// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Defaults Tests --

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "driftline", cfg.Logger.ServiceName)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, "localhost:6379", cfg.Queue.Addr)
	assert.Equal(t, "driftline:tasks", cfg.Queue.TaskStream)
	assert.Equal(t, "driftline-workers", cfg.Queue.Group)
	assert.Equal(t, 5*time.Second, cfg.Queue.ClaimBlock)
	assert.False(t, cfg.Solver.Enabled)
	assert.Equal(t, 0.912, cfg.Slider.Scale)
	assert.Equal(t, ":9301", cfg.Metrics.Listen)

	// The trajectory block tracks the generator's own defaults.
	assert.Equal(t, 800.0, cfg.Trajectory.MaxAcceleration)
	assert.Equal(t, 0.008, cfg.Trajectory.MinTimeInterval)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		v := viper.New()
		SetDefaults(v)
		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		return cfg
	}

	t.Run("Worker Concurrency", func(t *testing.T) {
		cfg := valid(t)
		cfg.Worker.Concurrency = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "worker.concurrency must be a positive integer")
	})

	t.Run("Queue Streams", func(t *testing.T) {
		cfg := valid(t)
		cfg.Queue.ResultStream = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue.task_stream, queue.result_stream, and queue.group are required")
	})

	t.Run("Trajectory Block", func(t *testing.T) {
		cfg := valid(t)
		cfg.Trajectory.PauseProbability = 2.0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trajectory configuration invalid")
	})

	t.Run("Slider Scale", func(t *testing.T) {
		cfg := valid(t)
		cfg.Slider.Scale = 1.5
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slider.scale must be within (0, 1]")
	})

	t.Run("Solver Requirements", func(t *testing.T) {
		solver := SolverConfig{
			Enabled:    true,
			Endpoint:   "http://localhost:8000/solve",
			Token:      "token-123",
			SolverType: "slide",
			Timeout:    30 * time.Second,
			RateLimit:  2,
			Burst:      1,
		}
		assert.NoError(t, solver.Validate())

		disabled := solver
		disabled.Enabled = false
		disabled.Token = ""
		assert.NoError(t, disabled.Validate(), "a disabled solver needs no credentials")

		missingEndpoint := solver
		missingEndpoint.Endpoint = ""
		err := missingEndpoint.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "solver.endpoint is required")

		missingToken := solver
		missingToken.Token = ""
		err = missingToken.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DRIFTLINE_SOLVER_TOKEN")

		badRate := solver
		badRate.RateLimit = 0
		err = badRate.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "solver.rate_limit")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
logger:
  level: debug
  log_file: /var/log/driftline.log
worker:
  concurrency: 12
trajectory:
  overshoot_probability: 0.5
queue:
  task_stream: "custom:tasks"
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "/var/log/driftline.log", cfg.Logger.LogFile)
		assert.Equal(t, 12, cfg.Worker.Concurrency)
		assert.Equal(t, 0.5, cfg.Trajectory.OvershootProbability)
		assert.Equal(t, "custom:tasks", cfg.Queue.TaskStream)
		// Untouched keys keep their defaults.
		assert.Equal(t, "driftline:results", cfg.Queue.ResultStream)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("trajectory.max_acceleration", -5)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "max_acceleration")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("solver.enabled", true)
		v.Set("solver.endpoint", "http://localhost:8000/solve")

		testToken := "tok_env_var_456"
		t.Setenv("DRIFTLINE_SOLVER_TOKEN", testToken)
		testPassword := "redis-secret"
		t.Setenv("DRIFTLINE_QUEUE_PASSWORD", testPassword)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, testToken, cfg.Solver.Token)
		assert.Equal(t, testPassword, cfg.Queue.Password)
	})
}
