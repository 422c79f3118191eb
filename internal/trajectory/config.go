// internal/trajectory/config.go
package trajectory

import "fmt"

// Config holds the tunables of the generation pipeline. Every field has a
// working default (see DefaultConfig); the generator copies the struct at
// construction and never mutates it afterwards.
type Config struct {
	// BaseNoiseAmplitude scales the standard deviation of the positional
	// noise added by the smoothing stage.
	BaseNoiseAmplitude float64 `mapstructure:"base_noise_amplitude" yaml:"base_noise_amplitude"`

	// Per-point perturbation probabilities.
	DirectionChangeProbability float64 `mapstructure:"direction_change_probability" yaml:"direction_change_probability"`
	MicroCorrectionProbability float64 `mapstructure:"micro_correction_probability" yaml:"micro_correction_probability"`
	PauseProbability           float64 `mapstructure:"pause_probability" yaml:"pause_probability"`

	// OvershootProbability is evaluated once per trajectory.
	OvershootProbability float64 `mapstructure:"overshoot_probability" yaml:"overshoot_probability"`

	// SpeedVariation multiplies the derived duration by a uniform draw from
	// [Min, Max]; AvgSpeed bounds the sampled base travel speed in px/s.
	SpeedVariationMin float64 `mapstructure:"speed_variation_min" yaml:"speed_variation_min"`
	SpeedVariationMax float64 `mapstructure:"speed_variation_max" yaml:"speed_variation_max"`
	AvgSpeedMin       float64 `mapstructure:"avg_speed_min" yaml:"avg_speed_min"`
	AvgSpeedMax       float64 `mapstructure:"avg_speed_max" yaml:"avg_speed_max"`

	// MaxAcceleration is the px/s^2 bound the validator damps spikes against.
	MaxAcceleration float64 `mapstructure:"max_acceleration" yaml:"max_acceleration"`

	// Spacing bounds, in seconds, between consecutive samples.
	MinTimeInterval float64 `mapstructure:"min_time_interval" yaml:"min_time_interval"`
	MaxTimeInterval float64 `mapstructure:"max_time_interval" yaml:"max_time_interval"`

	// BezierControlRange sets control-point spread as a fraction of distance.
	BezierControlRange float64 `mapstructure:"bezier_control_range" yaml:"bezier_control_range"`

	// WanderAmplitude is the idle drift radius in pixels.
	WanderAmplitude float64 `mapstructure:"wander_amplitude" yaml:"wander_amplitude"`
}

// DefaultConfig returns the tuning of an average, unhurried user.
func DefaultConfig() Config {
	return Config{
		BaseNoiseAmplitude:         2.0,
		DirectionChangeProbability: 0.15,
		MicroCorrectionProbability: 0.25,
		PauseProbability:           0.08,
		OvershootProbability:       0.12,
		SpeedVariationMin:          0.7,
		SpeedVariationMax:          1.4,
		AvgSpeedMin:                150.0,
		AvgSpeedMax:                400.0,
		MaxAcceleration:            800.0,
		MinTimeInterval:            0.008,
		MaxTimeInterval:            0.025,
		BezierControlRange:         0.3,
		WanderAmplitude:            4.0,
	}
}

// Validate reports the first structurally invalid field, if any.
func (c Config) Validate() error {
	probabilities := map[string]float64{
		"direction_change_probability": c.DirectionChangeProbability,
		"micro_correction_probability": c.MicroCorrectionProbability,
		"pause_probability":            c.PauseProbability,
		"overshoot_probability":        c.OvershootProbability,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, p)
		}
	}
	if c.BaseNoiseAmplitude < 0 {
		return fmt.Errorf("base_noise_amplitude must be non-negative, got %v", c.BaseNoiseAmplitude)
	}
	if c.AvgSpeedMin <= 0 || c.AvgSpeedMax < c.AvgSpeedMin {
		return fmt.Errorf("avg_speed range [%v, %v] is not an ordered positive range", c.AvgSpeedMin, c.AvgSpeedMax)
	}
	if c.SpeedVariationMin <= 0 || c.SpeedVariationMax < c.SpeedVariationMin {
		return fmt.Errorf("speed_variation range [%v, %v] is not an ordered positive range", c.SpeedVariationMin, c.SpeedVariationMax)
	}
	if c.MinTimeInterval <= 0 || c.MaxTimeInterval < c.MinTimeInterval {
		return fmt.Errorf("time interval range [%v, %v] is not an ordered positive range", c.MinTimeInterval, c.MaxTimeInterval)
	}
	if c.MaxAcceleration <= 0 {
		return fmt.Errorf("max_acceleration must be positive, got %v", c.MaxAcceleration)
	}
	if c.BezierControlRange < 0 {
		return fmt.Errorf("bezier_control_range must be non-negative, got %v", c.BezierControlRange)
	}
	if c.WanderAmplitude < 0 {
		return fmt.Errorf("wander_amplitude must be non-negative, got %v", c.WanderAmplitude)
	}
	return nil
}
