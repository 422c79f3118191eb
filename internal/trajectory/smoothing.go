// internal/trajectory/smoothing.go
package trajectory

import "github.com/xkilldash9x/driftline/api/schemas"

const (
	// Speed at which the noise factor is exactly 1, in px/s.
	noiseSpeedScale = 200.0

	// Bounds on the speed-adaptive noise factor.
	minNoiseFactor = 0.5
	maxNoiseFactor = 2.0
)

// applyDynamics derives velocity and acceleration by finite differences,
// then adds speed-adaptive Gaussian positional noise. The derivatives are
// deliberately not recomputed after the noise pass; the validator works
// from these values. Sequences shorter than three points pass through.
func (g *Generator) applyDynamics(points []schemas.Point) []schemas.Point {
	if len(points) < 3 {
		return points
	}

	for i := 1; i < len(points); i++ {
		dt := points[i].Timestamp - points[i-1].Timestamp
		if dt <= 0 {
			// Degenerate spacing, leave the defaults in place.
			continue
		}
		points[i].VelocityX = (points[i].X - points[i-1].X) / dt
		points[i].VelocityY = (points[i].Y - points[i-1].Y) / dt
		if i >= 2 {
			points[i].AccelerationX = (points[i].VelocityX - points[i-1].VelocityX) / dt
			points[i].AccelerationY = (points[i].VelocityY - points[i-1].VelocityY) / dt
		}
	}

	for i := 1; i < len(points); i++ {
		factor := clamp(points[i].Speed()/noiseSpeedScale, minNoiseFactor, maxNoiseFactor)
		sigma := g.cfg.BaseNoiseAmplitude * factor
		points[i].X += g.rng.NormFloat64() * sigma
		points[i].Y += g.rng.NormFloat64() * sigma
	}
	return points
}
