// internal/trajectory/skeleton.go
package trajectory

import (
	"math"

	"github.com/xkilldash9x/driftline/api/schemas"
)

const (
	// Sample count bounds for a skeleton pass.
	minSkeletonSteps = 10
	maxSkeletonSteps = 100

	// Chance of a cubic (two control point) bezier over a quadratic one.
	cubicBezierProbability = 0.6

	// Arc bow height as a fraction of travel distance.
	arcHeightMinFrac = 0.1
	arcHeightMaxFrac = 0.3
)

// generateSkeleton samples the chosen geometric path at N+1 uneven steps,
// timestamps spread linearly across the duration from the base clock read.
func (g *Generator) generateSkeleton(start, end Vector2D, duration, base float64, style pathStyle) []schemas.Point {
	switch style {
	case styleBezier:
		return g.bezierSkeleton(start, end, duration, base)
	case styleArc:
		return g.arcSkeleton(start, end, duration, base)
	default:
		return g.easedSkeleton(start, end, duration, base)
	}
}

// bezierSkeleton bends the path through one or two control points scattered
// around the geometric midpoint.
func (g *Generator) bezierSkeleton(start, end Vector2D, duration, base float64) []schemas.Point {
	distance := start.Dist(end)
	mid := start.Add(end).Mul(0.5)
	spread := distance * g.cfg.BezierControlRange

	c1 := Vector2D{
		X: mid.X + g.uniform(-spread, spread),
		Y: mid.Y + g.uniform(-spread, spread),
	}

	if g.rng.Float64() < cubicBezierProbability {
		c2 := Vector2D{
			X: mid.X + g.uniform(-spread/2, spread/2),
			Y: mid.Y + g.uniform(-spread/2, spread/2),
		}
		return g.samplePath(duration, base, func(t float64) Vector2D {
			return cubicBezierPoint(start, c1, c2, end, t)
		})
	}
	return g.samplePath(duration, base, func(t float64) Vector2D {
		return quadraticBezierPoint(start, c1, end, t)
	})
}

// arcSkeleton bows a straight interpolation perpendicular to its dominant
// axis, with a random height and a coin-flip direction.
func (g *Generator) arcSkeleton(start, end Vector2D, duration, base float64) []schemas.Point {
	distance := start.Dist(end)
	height := g.uniform(arcHeightMinFrac*distance, arcHeightMaxFrac*distance)
	if g.rng.Float64() < 0.5 {
		height = -height
	}

	delta := end.Sub(start)
	horizontal := math.Abs(delta.X) > math.Abs(delta.Y)

	return g.samplePath(duration, base, func(t float64) Vector2D {
		pos := start.Add(delta.Mul(t))
		bow := height * math.Sin(math.Pi*t)
		if horizontal {
			pos.Y += bow
		} else {
			pos.X += bow
		}
		return pos
	})
}

// easedSkeleton keeps the path straight and shapes speed instead, remapping
// time through a cubic ease-in-out.
func (g *Generator) easedSkeleton(start, end Vector2D, duration, base float64) []schemas.Point {
	delta := end.Sub(start)
	return g.samplePath(duration, base, func(t float64) Vector2D {
		return start.Add(delta.Mul(computeEaseInOutCubic(t)))
	})
}

// samplePath evaluates curve at N+1 parameters. N comes from dividing the
// duration by a per-call random step interval, clamped to the step bounds.
func (g *Generator) samplePath(duration, base float64, curve func(t float64) Vector2D) []schemas.Point {
	step := g.uniform(g.cfg.MinTimeInterval, g.cfg.MaxTimeInterval)
	n := int(duration / step)
	if n < minSkeletonSteps {
		n = minSkeletonSteps
	}
	if n > maxSkeletonSteps {
		n = maxSkeletonSteps
	}

	points := make([]schemas.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pos := curve(t)
		points = append(points, schemas.Point{
			X:         pos.X,
			Y:         pos.Y,
			Timestamp: base + t*duration,
		})
	}
	return points
}

// computeEaseInOutCubic provides a smooth acceleration and deceleration profile.
func computeEaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// quadraticBezierPoint evaluates a single control point Bernstein basis at t.
func quadraticBezierPoint(p0, p1, p2 Vector2D, t float64) Vector2D {
	omt := 1.0 - t
	return p0.Mul(omt * omt).
		Add(p1.Mul(2 * omt * t)).
		Add(p2.Mul(t * t))
}

// cubicBezierPoint evaluates the cubic Bezier curve formula at t.
func cubicBezierPoint(p0, p1, p2, p3 Vector2D, t float64) Vector2D {
	omt := 1.0 - t
	omt2 := omt * omt
	t2 := t * t
	return p0.Mul(omt2 * omt).
		Add(p1.Mul(3 * omt2 * t)).
		Add(p2.Mul(3 * omt * t2)).
		Add(p3.Mul(t2 * t))
}
