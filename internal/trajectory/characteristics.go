// internal/trajectory/characteristics.go
package trajectory

import "github.com/xkilldash9x/driftline/api/schemas"

const (
	// Micro-correction offset span in pixels, per axis.
	microCorrectionSpan = 3.0

	// Pause duration bounds injected between samples, in seconds.
	pauseMinSeconds = 0.05
	pauseMaxSeconds = 0.2

	// Heading drift bound for angular jitter, in radians.
	headingJitterRadians = 0.2

	// Overshoot travel past the target and the pull-back jitter, in pixels.
	overshootMinReach = 5.0
	overshootMaxReach = 15.0
	correctionJitter  = 2.0

	// Overshoot only applies to sequences longer than this.
	minOvershootPoints = 5
)

// injectCharacteristics perturbs a skeleton with the small slips, stalls and
// heading drift a real hand produces. Sequences shorter than three points
// pass through untouched.
func (g *Generator) injectCharacteristics(points []schemas.Point) []schemas.Point {
	if len(points) < 3 {
		return points
	}

	shaped := make([]schemas.Point, 0, len(points)+2)
	for i, p := range points {
		if g.rng.Float64() < g.cfg.MicroCorrectionProbability {
			p.X += g.uniform(-microCorrectionSpan, microCorrectionSpan)
			p.Y += g.uniform(-microCorrectionSpan, microCorrectionSpan)
		}

		if i > 0 && g.rng.Float64() < g.cfg.PauseProbability {
			p.Timestamp += g.uniform(pauseMinSeconds, pauseMaxSeconds)
		}

		// Heading drift is anchored to the previous shaped point, not the
		// raw skeleton, so jitter accumulates along the path.
		if i > 0 && g.rng.Float64() < g.cfg.DirectionChangeProbability {
			prev := shaped[len(shaped)-1]
			offset := Vector2D{X: p.X - prev.X, Y: p.Y - prev.Y}
			rotated := offset.Rotate(g.uniform(-headingJitterRadians, headingJitterRadians))
			p.X = prev.X + rotated.X
			p.Y = prev.Y + rotated.Y
		}

		shaped = append(shaped, p)
	}

	if g.rng.Float64() < g.cfg.OvershootProbability && len(shaped) > 1 {
		shaped = g.appendOvershoot(shaped)
	}
	return shaped
}

// appendOvershoot runs the pointer past the target along its final heading,
// then pulls it back to a jittered copy of the target.
func (g *Generator) appendOvershoot(points []schemas.Point) []schemas.Point {
	if len(points) < minOvershootPoints {
		return points
	}

	last := points[len(points)-1]
	prev := points[len(points)-2]
	heading := Vector2D{X: last.X - prev.X, Y: last.Y - prev.Y}
	if heading.Mag() < 1e-9 {
		return points
	}

	unit := heading.Normalize()
	reach := g.uniform(overshootMinReach, overshootMaxReach)
	overshoot := schemas.Point{
		X:         last.X + unit.X*reach,
		Y:         last.Y + unit.Y*reach,
		Timestamp: last.Timestamp + g.uniform(0.05, 0.1),
	}
	correction := schemas.Point{
		X:         last.X + g.uniform(-correctionJitter, correctionJitter),
		Y:         last.Y + g.uniform(-correctionJitter, correctionJitter),
		Timestamp: overshoot.Timestamp + g.uniform(0.1, 0.2),
	}
	return append(points, overshoot, correction)
}
