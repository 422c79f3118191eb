// internal/trajectory/wander.go
package trajectory

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/api/schemas"
)

// wanderFrequency scales how fast the drift track is traversed.
const wanderFrequency = 0.8

// Wander produces a low-amplitude idle drift around a fixed point, the kind
// of motion a resting hand leaves between deliberate moves. The drift
// follows two independent Perlin tracks, so it meanders rather than buzzes.
func (g *Generator) Wander(center Vector2D, seconds float64) (schemas.Trajectory, error) {
	if !center.IsFinite() {
		return nil, fmt.Errorf("%w: center=%+v", ErrInvalidPoint, center)
	}
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, seconds)
	}

	base := timeSeconds(g.now())
	n := int(seconds / g.cfg.MaxTimeInterval)
	if n < 1 {
		n = 1
	}
	if n > maxSkeletonSteps {
		n = maxSkeletonSteps
	}

	// Random phase so consecutive wanders do not retrace the same track.
	phase := g.uniform(0, 1000)

	points := make([]schemas.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		at := phase + t*seconds*wanderFrequency
		points = append(points, schemas.Point{
			X:         center.X + g.noiseX.Noise1D(at)*g.cfg.WanderAmplitude,
			Y:         center.Y + g.noiseY.Noise1D(at)*g.cfg.WanderAmplitude,
			Timestamp: base + t*seconds,
		})
	}

	out := g.validate(points)
	g.logger.Debug("wander generated",
		zap.Float64("seconds", seconds),
		zap.Int("points", len(out)),
	)
	return out, nil
}
