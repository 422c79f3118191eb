// internal/trajectory/validate.go
package trajectory

import (
	"math"

	"github.com/xkilldash9x/driftline/api/schemas"
)

// Gaps wider than this multiple of the max interval get interpolated fill.
const gapRepairFactor = 3.0

// validate rebuilds the sequence around the unchanged first point, enforcing
// the timing and acceleration invariants:
//
//   - consecutive timestamps at least MinTimeInterval apart, clamped forward
//     when they are not;
//   - oversized gaps filled with jittered interpolated points, the point
//     that opened the gap dropped in their favor;
//   - acceleration spikes above MaxAcceleration damped to the midpoint of
//     the offending point and its predecessor.
//
// Fill points are budgeted so the output never exceeds maxTrajectoryPoints;
// once the budget is spent, remaining wide gaps are accepted as-is.
func (g *Generator) validate(points []schemas.Point) schemas.Trajectory {
	if len(points) < 2 {
		return points
	}

	out := make(schemas.Trajectory, 0, len(points))
	out = append(out, points[0])

	budget := maxTrajectoryPoints - len(points)
	if budget < 0 {
		budget = 0
	}

	for _, current := range points[1:] {
		previous := out[len(out)-1]
		dt := current.Timestamp - previous.Timestamp

		if dt < g.cfg.MinTimeInterval {
			current.Timestamp = previous.Timestamp + g.cfg.MinTimeInterval
		} else if dt > gapRepairFactor*g.cfg.MaxTimeInterval {
			k := int(dt / g.cfg.MaxTimeInterval)
			if k > budget {
				k = budget
			}
			if k > 0 {
				out = g.appendGapFill(out, previous, current, k)
				budget -= k
				continue
			}
		}

		if math.Abs(current.AccelerationX) > g.cfg.MaxAcceleration ||
			math.Abs(current.AccelerationY) > g.cfg.MaxAcceleration {
			current.X = (current.X + previous.X) / 2
			current.Y = (current.Y + previous.Y) / 2
			// The stored derivatives described the undamped motion.
			current.AccelerationX = 0
			current.AccelerationY = 0
		}
		out = append(out, current)
	}
	return out
}

// appendGapFill appends k evenly time-spaced points interpolated between
// previous and current, each with a pixel of positional jitter.
func (g *Generator) appendGapFill(out schemas.Trajectory, previous, current schemas.Point, k int) schemas.Trajectory {
	span := current.Timestamp - previous.Timestamp
	for i := 1; i <= k; i++ {
		t := float64(i) / float64(k+1)
		out = append(out, schemas.Point{
			X:         previous.X + (current.X-previous.X)*t + g.uniform(-1, 1),
			Y:         previous.Y + (current.Y-previous.Y)*t + g.uniform(-1, 1),
			Timestamp: previous.Timestamp + span*t,
		})
	}
	return out
}
