package schemas

// -- Task Schemas --

// TaskKind defines the type of generation work a queued task requests.
type TaskKind string

const (
	TaskMove   TaskKind = "MOVE"
	TaskWander TaskKind = "WANDER"
	TaskDrag   TaskKind = "DRAG"
)

// Coordinate is a plain 2D position used in task payloads.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrajectoryTask is a unit of generation work carried on the task stream.
// Fields beyond Start are interpreted per Kind: MOVE uses End and Duration
// (zero derives one), DRAG uses OffsetPx, WANDER uses Seconds.
type TrajectoryTask struct {
	TaskID   string     `json:"task_id"`
	Kind     TaskKind   `json:"kind"`
	Start    Coordinate `json:"start"`
	End      Coordinate `json:"end"`
	Duration float64    `json:"duration,omitempty"`
	OffsetPx float64    `json:"offset_px,omitempty"`
	Seconds  float64    `json:"seconds,omitempty"`
}

// TrajectoryResult reports the outcome of one task. Exactly one of Points
// or Error is meaningful; Events is populated for DRAG tasks.
type TrajectoryResult struct {
	TaskID      string         `json:"task_id"`
	Kind        TaskKind       `json:"kind"`
	Worker      string         `json:"worker"`
	Points      Trajectory     `json:"points,omitempty"`
	Events      []PointerEvent `json:"events,omitempty"`
	Error       string         `json:"error,omitempty"`
	CompletedAt float64        `json:"completed_at"`
}

// Failed reports whether the task ended in an error.
func (r *TrajectoryResult) Failed() bool {
	return r.Error != ""
}
