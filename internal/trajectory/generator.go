// internal/trajectory/generator.go
package trajectory

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/api/schemas"
)

var (
	// ErrInvalidPoint marks caller-supplied coordinates that are not finite.
	ErrInvalidPoint = errors.New("point coordinates must be finite")
	// ErrInvalidDuration marks a caller-supplied duration that is not a
	// positive, finite number of seconds.
	ErrInvalidDuration = errors.New("duration must be positive and finite")
)

const (
	// Targets closer than this skip the pipeline for the two-point fallback.
	minPlannedDistance = 5.0

	// Hard bound on the length of any returned trajectory, synthesized
	// gap-fill points included.
	maxTrajectoryPoints = 130
)

// Generator produces humanlike pointer trajectories. It owns a single
// pseudo-random source, so an instance is not safe for concurrent use;
// construct one per goroutine.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	noiseX *perlin.Perlin
	noiseY *perlin.Perlin
	now    func() time.Time
	logger *zap.Logger
}

// Option adjusts a Generator at construction time.
type Option func(*Generator)

// WithRand injects the pseudo-random source. Pass a seeded source for
// reproducible output.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithClock injects the wall-clock read used to base timestamps. The clock
// is read exactly once per generated trajectory.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator from the given config. Without options it seeds
// its own random source from the current time.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trajectory config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Generator{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.Named("trajectory"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// Standard Perlin noise parameters; the track seeds come from the
	// generator's own source so seeded instances stay reproducible.
	alpha, beta, n := 2.0, 2.0, int32(3)
	seed := g.rng.Int63()
	g.noiseX = perlin.NewPerlin(alpha, beta, n, seed)
	g.noiseY = perlin.NewPerlin(alpha, beta, n, seed+1)

	return g, nil
}

// NewSeeded creates a Generator with a fixed random seed and a fixed clock,
// so identical inputs produce bit-identical trajectories.
func NewSeeded(cfg Config, logger *zap.Logger, seed int64, epoch time.Time) (*Generator, error) {
	return New(cfg, logger,
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(func() time.Time { return epoch }),
	)
}

// Generate produces a trajectory from start to end over a derived duration.
func (g *Generator) Generate(start, end Vector2D) (schemas.Trajectory, error) {
	return g.generate(start, end, 0)
}

// GenerateWithDuration produces a trajectory over the caller's duration in
// seconds. Unlike derived durations, the given value is not clamped.
func (g *Generator) GenerateWithDuration(start, end Vector2D, duration float64) (schemas.Trajectory, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, duration)
	}
	return g.generate(start, end, duration)
}

// generate runs the full pipeline. A duration of zero means derive one.
func (g *Generator) generate(start, end Vector2D, duration float64) (schemas.Trajectory, error) {
	if !start.IsFinite() || !end.IsFinite() {
		return nil, fmt.Errorf("%w: start=%+v end=%+v", ErrInvalidPoint, start, end)
	}

	// Single wall-clock read; every timestamp in this call is based on it.
	base := timeSeconds(g.now())

	distance := start.Dist(end)
	if distance < minPlannedDistance {
		return g.shortTrajectory(start, end, base), nil
	}

	if duration <= 0 {
		duration = g.planDuration(distance)
	}
	style := g.chooseStyle(distance)

	points := g.generateSkeleton(start, end, duration, base, style)
	points = g.injectCharacteristics(points)
	points = g.applyDynamics(points)
	out := g.validate(points)

	g.logger.Debug("trajectory generated",
		zap.Float64("distance", distance),
		zap.Float64("duration", duration),
		zap.Stringer("style", style),
		zap.Int("points", len(out)),
	)
	return out, nil
}

// shortTrajectory covers targets too close to justify the full pipeline:
// the exact start, then the jittered end a beat later.
func (g *Generator) shortTrajectory(start, end Vector2D, base float64) schemas.Trajectory {
	endX := end.X + g.uniform(-1, 1)
	endY := end.Y + g.uniform(-1, 1)
	return schemas.Trajectory{
		{X: start.X, Y: start.Y, Timestamp: base},
		{X: endX, Y: endY, Timestamp: base + g.uniform(0.1, 0.3)},
	}
}

// uniform draws from [min, max).
func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func timeSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
