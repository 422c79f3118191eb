// File: internal/slider/planner_test.go
package slider

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/api/schemas"
	"github.com/xkilldash9x/driftline/internal/config"
	"github.com/xkilldash9x/driftline/internal/trajectory"
)

var testEpoch = time.Unix(1735689600, 0)

func testSliderConfig() config.SliderConfig {
	return config.SliderConfig{
		Scale:       0.912,
		MaxOffsetPx: 400,
	}
}

// newTestPlanner builds a fully seeded planner so plans are reproducible.
func newTestPlanner(t *testing.T, cfg config.SliderConfig, seed int64) *Planner {
	t.Helper()

	gen, err := trajectory.NewSeeded(trajectory.DefaultConfig(), zap.NewNop(), seed, testEpoch)
	require.NoError(t, err)

	p, err := NewPlanner(gen, cfg, zap.NewNop(), WithRand(rand.New(rand.NewSource(seed))))
	require.NoError(t, err)
	return p
}

// -- Constructor Tests --

func TestNewPlannerValidation(t *testing.T) {
	gen, err := trajectory.NewSeeded(trajectory.DefaultConfig(), zap.NewNop(), 1, testEpoch)
	require.NoError(t, err)

	t.Run("Requires Generator", func(t *testing.T) {
		_, err := NewPlanner(nil, testSliderConfig(), zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trajectory generator")
	})

	t.Run("Rejects Bad Scale", func(t *testing.T) {
		for _, scale := range []float64{0, -0.5, 1.5} {
			cfg := testSliderConfig()
			cfg.Scale = scale
			_, err := NewPlanner(gen, cfg, zap.NewNop())
			require.Error(t, err, "scale %v should be rejected", scale)
		}
	})

	t.Run("Accepts Nil Logger", func(t *testing.T) {
		p, err := NewPlanner(gen, testSliderConfig(), nil)
		require.NoError(t, err)
		require.NotNil(t, p)
	})
}

// -- Planning Tests --

func TestPlanDrag(t *testing.T) {
	p := newTestPlanner(t, testSliderConfig(), 42)
	handle := trajectory.Vector2D{X: 100, Y: 240}

	plan, err := p.PlanDrag(handle, 200)
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, 200.0, plan.OffsetPx)
	assert.InDelta(t, 182.4, plan.TravelPx, 1e-9)

	require.GreaterOrEqual(t, len(plan.Path), 2)
	first := plan.Path[0]
	last := plan.Path[len(plan.Path)-1]
	assert.InDelta(t, handle.X, first.X, 5.0, "drag should start near the handle")
	assert.InDelta(t, handle.Y, first.Y, 5.0)
	assert.InDelta(t, handle.X+182.4, last.X, 30.0, "drag should end near the scaled target")
	assert.InDelta(t, handle.Y, last.Y, 30.0)

	require.Len(t, plan.Events, len(plan.Path)+1)

	press := plan.Events[0]
	assert.Equal(t, schemas.MousePress, press.Type)
	assert.Equal(t, schemas.ButtonLeft, press.Button)
	assert.Equal(t, int64(1), press.Buttons)
	assert.Equal(t, 1, press.ClickCount)
	assert.Equal(t, first.X, press.X)
	assert.Equal(t, first.Y, press.Y)
	assert.Zero(t, press.DelayMs)

	// The first pull carries the grab pause on top of its own path delay.
	firstMove := plan.Events[1]
	firstDt := (plan.Path[1].Timestamp - plan.Path[0].Timestamp) * 1000
	assert.Equal(t, schemas.MouseMove, firstMove.Type)
	assert.GreaterOrEqual(t, firstMove.DelayMs, firstDt+holdMinMs-1e-9)
	assert.LessOrEqual(t, firstMove.DelayMs, firstDt+holdMaxMs+1e-9)

	for i := 2; i < len(plan.Events)-1; i++ {
		move := plan.Events[i]
		assert.Equal(t, schemas.MouseMove, move.Type)
		assert.Equal(t, schemas.ButtonNone, move.Button)
		assert.Equal(t, int64(1), move.Buttons, "button must stay held mid-drag")
		dt := (plan.Path[i].Timestamp - plan.Path[i-1].Timestamp) * 1000
		assert.InDelta(t, dt, move.DelayMs, 1e-9)
		assert.Equal(t, plan.Path[i].X, move.X)
		assert.Equal(t, plan.Path[i].Y, move.Y)
	}

	release := plan.Events[len(plan.Events)-1]
	assert.Equal(t, schemas.MouseRelease, release.Type)
	assert.Equal(t, schemas.ButtonLeft, release.Button)
	assert.Equal(t, int64(0), release.Buttons)
	assert.Equal(t, 1, release.ClickCount)
	assert.Equal(t, last.X, release.X)
	assert.Equal(t, last.Y, release.Y)
	assert.GreaterOrEqual(t, release.DelayMs, releaseMinMs-1e-9)
	assert.LessOrEqual(t, release.DelayMs, releaseMaxMs+1e-9)
}

func TestPlanDragHonorsScale(t *testing.T) {
	cfg := testSliderConfig()
	cfg.Scale = 0.5
	p := newTestPlanner(t, cfg, 7)

	plan, err := p.PlanDrag(trajectory.Vector2D{X: 50, Y: 300}, 360)
	require.NoError(t, err)

	assert.InDelta(t, 180.0, plan.TravelPx, 1e-9)
	last := plan.Path[len(plan.Path)-1]
	assert.InDelta(t, 230.0, last.X, 30.0)
}

func TestPlanDragIsDeterministic(t *testing.T) {
	handle := trajectory.Vector2D{X: 120, Y: 255}

	planA, err := newTestPlanner(t, testSliderConfig(), 99).PlanDrag(handle, 150)
	require.NoError(t, err)
	planB, err := newTestPlanner(t, testSliderConfig(), 99).PlanDrag(handle, 150)
	require.NoError(t, err)

	require.Equal(t, planA, planB)

	planC, err := newTestPlanner(t, testSliderConfig(), 100).PlanDrag(handle, 150)
	require.NoError(t, err)
	assert.NotEqual(t, planA.Path, planC.Path)
}

func TestPlanDragRejectsBadOffsets(t *testing.T) {
	p := newTestPlanner(t, testSliderConfig(), 13)
	handle := trajectory.Vector2D{X: 100, Y: 240}

	testCases := []struct {
		name   string
		handle trajectory.Vector2D
		offset float64
	}{
		{name: "zero", handle: handle, offset: 0},
		{name: "negative", handle: handle, offset: -25},
		{name: "nan", handle: handle, offset: math.NaN()},
		{name: "infinite", handle: handle, offset: math.Inf(1)},
		{name: "beyond_track", handle: handle, offset: 401},
		{name: "bad_handle", handle: trajectory.Vector2D{X: math.NaN(), Y: 240}, offset: 100},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.PlanDrag(tc.handle, tc.offset)
			require.ErrorIs(t, err, ErrInvalidOffset)
		})
	}
}

func TestPlanDragWithoutTrackLimit(t *testing.T) {
	cfg := testSliderConfig()
	cfg.MaxOffsetPx = 0
	p := newTestPlanner(t, cfg, 3)

	plan, err := p.PlanDrag(trajectory.Vector2D{X: 10, Y: 10}, 2500)
	require.NoError(t, err)
	assert.InDelta(t, 2280.0, plan.TravelPx, 1e-9)
}
