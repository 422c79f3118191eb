package schemas

import "math"

// -- Trajectory Schemas --

// Point is a single time-stamped sample of a synthetic pointer path.
// Velocity and acceleration are derived by the generator's smoothing pass
// and stay at zero until that pass has run.
type Point struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Timestamp     float64 `json:"timestamp"`
	VelocityX     float64 `json:"velocity_x,omitempty"`
	VelocityY     float64 `json:"velocity_y,omitempty"`
	AccelerationX float64 `json:"acceleration_x,omitempty"`
	AccelerationY float64 `json:"acceleration_y,omitempty"`
}

// Speed returns the magnitude of the point's derived velocity.
func (p Point) Speed() float64 {
	return math.Hypot(p.VelocityX, p.VelocityY)
}

// Trajectory is an ordered sequence of points. Once validated, the first
// point sits at the requested start position and timestamps never decrease.
type Trajectory []Point

// Duration returns the elapsed seconds between the first and last point.
func (t Trajectory) Duration() float64 {
	if len(t) < 2 {
		return 0
	}
	return t[len(t)-1].Timestamp - t[0].Timestamp
}

// PathLength returns the summed Euclidean length of all segments.
func (t Trajectory) PathLength() float64 {
	var total float64
	for i := 1; i < len(t); i++ {
		total += math.Hypot(t[i].X-t[i-1].X, t[i].Y-t[i-1].Y)
	}
	return total
}

// Events renders the trajectory as replayable pointer-move events, each
// carrying its delay in milliseconds relative to the preceding event.
func (t Trajectory) Events() []PointerEvent {
	events := make([]PointerEvent, 0, len(t))
	for i, p := range t {
		var delay float64
		if i > 0 {
			delay = (p.Timestamp - t[i-1].Timestamp) * 1000
		}
		events = append(events, PointerEvent{
			Type:    MouseMove,
			X:       p.X,
			Y:       p.Y,
			Button:  ButtonNone,
			DelayMs: delay,
		})
	}
	return events
}

// -- Pointer Event Schemas --

// MouseEventType defines the type of a replayed mouse event.
type MouseEventType string

const (
	MouseMove    MouseEventType = "mouseMoved"
	MousePress   MouseEventType = "mousePressed"
	MouseRelease MouseEventType = "mouseReleased"
)

// MouseButton defines the mouse button attached to an event.
type MouseButton string

const (
	ButtonNone MouseButton = "none"
	ButtonLeft MouseButton = "left"
)

// PointerEvent is the driver-agnostic projection of one trajectory sample.
// DelayMs is the pause a replayer should insert before dispatching the event.
type PointerEvent struct {
	Type       MouseEventType `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Button     MouseButton    `json:"button"`
	Buttons    int64          `json:"buttons,omitempty"`
	ClickCount int            `json:"click_count,omitempty"`
	DelayMs    float64        `json:"delay_ms"`
}

// DragPlan is a complete press-drag-release sequence for a slider handle.
// TravelPx is the corrected horizontal distance the pointer actually covers.
type DragPlan struct {
	OffsetPx float64        `json:"offset_px"`
	TravelPx float64        `json:"travel_px"`
	Path     Trajectory     `json:"path"`
	Events   []PointerEvent `json:"events"`
}
