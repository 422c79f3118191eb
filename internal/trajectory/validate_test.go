package trajectory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/driftline/api/schemas"
)

func TestValidateClampsTightSpacing(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 12345)
	points := []schemas.Point{
		{X: 0, Y: 0, Timestamp: 100},
		{X: 5, Y: 5, Timestamp: 100.001},
		{X: 10, Y: 10, Timestamp: 100.002},
	}

	out := g.validate(points)
	require.Len(t, out, 3)

	// Each offender gets pushed exactly one minimum interval past its
	// predecessor, so the clamp cascades.
	assert.InDelta(t, 100.008, out[1].Timestamp, 1e-12)
	assert.InDelta(t, 100.016, out[2].Timestamp, 1e-12)
	assert.Equal(t, 5.0, out[1].X, "clamping must not move positions")
}

func TestValidateFillsWideGaps(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 12345)
	points := []schemas.Point{
		{X: 0, Y: 0, Timestamp: 100},
		{X: 100, Y: 0, Timestamp: 101},
	}

	out := g.validate(points)

	// One second against a 25ms ceiling inserts k = 40 fill points and
	// drops the point that opened the gap: 1 + 40 = 41.
	require.Len(t, out, 41)

	for i := 1; i < len(out); i++ {
		tt := float64(i) / 41.0
		assert.Greater(t, out[i].Timestamp, out[i-1].Timestamp, "fill %d not monotonic", i)
		assert.InDelta(t, 100+tt, out[i].Timestamp, 1e-12, "fill %d time not interpolated", i)
		assert.InDelta(t, 100*tt, out[i].X, 1.0+1e-9, "fill %d beyond jitter range", i)
		assert.LessOrEqual(t, math.Abs(out[i].Y), 1.0, "fill %d beyond jitter range", i)
	}
}

func TestValidateDampsAccelerationSpikes(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 12345)
	points := []schemas.Point{
		{X: 0, Y: 0, Timestamp: 100},
		{X: 10, Y: 8, Timestamp: 100.02, VelocityX: 3, AccelerationX: 5000, AccelerationY: 100},
	}

	out := g.validate(points)
	require.Len(t, out, 2)

	spiked := out[1]
	assert.Equal(t, 5.0, spiked.X, "position should retreat to the midpoint")
	assert.Equal(t, 4.0, spiked.Y)
	assert.Zero(t, spiked.AccelerationX, "the stored spike described motion that no longer exists")
	assert.Zero(t, spiked.AccelerationY)
	assert.Equal(t, 3.0, spiked.VelocityX, "velocity is left for the consumer to reread")
}

func TestValidateRespectsPointBudget(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 12345)

	// 103 points a full second apart: every gap wants 40 fills, but only
	// 130-103=27 are available. The first gap consumes them all and the
	// rest pass through unrepaired: 1 + 27 + 101 = 129.
	points := make([]schemas.Point, 0, 103)
	for i := 0; i < 103; i++ {
		points = append(points, schemas.Point{
			X:         float64(i),
			Timestamp: 100 + float64(i),
		})
	}

	out := g.validate(points)
	require.Len(t, out, 129)
	assert.LessOrEqual(t, len(out), maxTrajectoryPoints)

	for i := 1; i < len(out); i++ {
		assert.Greater(t, out[i].Timestamp, out[i-1].Timestamp)
	}
}

func TestValidatePassthrough(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, DefaultConfig(), 12345)

	single := []schemas.Point{{X: 1, Y: 2, Timestamp: 100}}
	require.Len(t, g.validate(single), 1)

	empty := []schemas.Point{}
	require.Empty(t, g.validate(empty))
}
