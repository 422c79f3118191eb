// File: internal/slider/planner.go
package slider

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/api/schemas"
	"github.com/xkilldash9x/driftline/internal/config"
	"github.com/xkilldash9x/driftline/internal/trajectory"
)

// ErrInvalidOffset marks a solver offset the planner cannot turn into a drag.
var ErrInvalidOffset = errors.New("slider offset is not usable")

// Grab and drop pause bounds, in milliseconds. A real hand settles on the
// handle before pulling and hesitates before letting go.
const (
	holdMinMs    = 80.0
	holdMaxMs    = 140.0
	releaseMinMs = 40.0
	releaseMaxMs = 100.0
)

// Planner turns a solved slider offset into a full press-drag-release plan.
// It shares the generator's single-goroutine constraint; construct one per
// goroutine.
type Planner struct {
	gen    *trajectory.Generator
	cfg    config.SliderConfig
	rng    *rand.Rand
	logger *zap.Logger
}

// Option adjusts a Planner at construction time.
type Option func(*Planner)

// WithRand injects the pseudo-random source used for grab and drop pauses.
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) {
		p.rng = rng
	}
}

// NewPlanner creates a Planner on top of an existing trajectory generator.
func NewPlanner(gen *trajectory.Generator, cfg config.SliderConfig, logger *zap.Logger, opts ...Option) (*Planner, error) {
	if gen == nil {
		return nil, fmt.Errorf("slider planner requires a trajectory generator")
	}
	if cfg.Scale <= 0 || cfg.Scale > 1 {
		return nil, fmt.Errorf("slider scale %v is outside (0, 1]", cfg.Scale)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Planner{
		gen:    gen,
		cfg:    cfg,
		logger: logger.Named("slider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p, nil
}

// PlanDrag plans the pointer work to pull a slider handle by the offset the
// solver reported. The offset is scaled down to the rendered track before
// the path is generated, so the handle lands where the puzzle piece sits.
func (p *Planner) PlanDrag(handle trajectory.Vector2D, offsetPx float64) (*schemas.DragPlan, error) {
	if !handle.IsFinite() {
		return nil, fmt.Errorf("%w: handle position %+v is not finite", ErrInvalidOffset, handle)
	}
	if offsetPx <= 0 || math.IsNaN(offsetPx) || math.IsInf(offsetPx, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidOffset, offsetPx)
	}
	if p.cfg.MaxOffsetPx > 0 && offsetPx > p.cfg.MaxOffsetPx {
		return nil, fmt.Errorf("%w: %v exceeds the track limit %v", ErrInvalidOffset, offsetPx, p.cfg.MaxOffsetPx)
	}

	travel := offsetPx * p.cfg.Scale
	target := trajectory.Vector2D{X: handle.X + travel, Y: handle.Y}

	path, err := p.gen.Generate(handle, target)
	if err != nil {
		return nil, fmt.Errorf("generating drag path: %w", err)
	}

	plan := &schemas.DragPlan{
		OffsetPx: offsetPx,
		TravelPx: travel,
		Path:     path,
		Events:   p.frameEvents(path),
	}

	p.logger.Debug("drag planned",
		zap.Float64("offset_px", offsetPx),
		zap.Float64("travel_px", travel),
		zap.Int("events", len(plan.Events)),
	)
	return plan, nil
}

// frameEvents wraps a path in its press and release: grab the handle at the
// first sample, pull through the rest with the left button held, let go at
// the last one.
func (p *Planner) frameEvents(path schemas.Trajectory) []schemas.PointerEvent {
	if len(path) == 0 {
		return nil
	}

	events := make([]schemas.PointerEvent, 0, len(path)+2)
	first := path[0]
	events = append(events, schemas.PointerEvent{
		Type:       schemas.MousePress,
		X:          first.X,
		Y:          first.Y,
		Button:     schemas.ButtonLeft,
		Buttons:    1,
		ClickCount: 1,
	})

	hold := p.uniform(holdMinMs, holdMaxMs)
	for i := 1; i < len(path); i++ {
		delay := (path[i].Timestamp - path[i-1].Timestamp) * 1000
		if i == 1 {
			delay += hold
		}
		events = append(events, schemas.PointerEvent{
			Type:    schemas.MouseMove,
			X:       path[i].X,
			Y:       path[i].Y,
			Button:  schemas.ButtonNone,
			Buttons: 1,
			DelayMs: delay,
		})
	}

	last := path[len(path)-1]
	events = append(events, schemas.PointerEvent{
		Type:       schemas.MouseRelease,
		X:          last.X,
		Y:          last.Y,
		Button:     schemas.ButtonLeft,
		Buttons:    0,
		ClickCount: 1,
		DelayMs:    p.uniform(releaseMinMs, releaseMaxMs),
	})
	return events
}

func (p *Planner) uniform(min, max float64) float64 {
	return min + p.rng.Float64()*(max-min)
}
