// internal/trajectory/planner.go
package trajectory

// Duration planning bounds, in seconds and pixels.
const (
	minDuration = 0.2
	maxDuration = 3.0

	longReach  = 500.0
	shortReach = 100.0

	// Above this distance the style weights shift towards sweeping curves.
	styleCutoff = 300.0
)

// pathStyle selects the geometric family of a skeleton.
type pathStyle int

const (
	styleBezier pathStyle = iota
	styleArc
	styleCurvedDirect
)

func (s pathStyle) String() string {
	switch s {
	case styleBezier:
		return "bezier"
	case styleArc:
		return "arc"
	default:
		return "curved_direct"
	}
}

// planDuration derives a plausible travel time from distance alone: a
// sampled base speed, a reach-dependent stretch, a final variation factor,
// clamped to the supported window.
func (g *Generator) planDuration(distance float64) float64 {
	speed := g.uniform(g.cfg.AvgSpeedMin, g.cfg.AvgSpeedMax)
	duration := distance / speed

	switch {
	case distance > longReach:
		duration *= g.uniform(1.1, 1.3)
	case distance < shortReach:
		duration *= g.uniform(0.8, 1.0)
	}

	duration *= g.uniform(g.cfg.SpeedVariationMin, g.cfg.SpeedVariationMax)
	return clamp(duration, minDuration, maxDuration)
}

// chooseStyle weights curve selection by travel distance. Long reaches favor
// beziers, short ones an eased direct line.
func (g *Generator) chooseStyle(distance float64) pathStyle {
	// Weights ordered as [bezier, arc, curved-direct].
	weights := [3]float64{0.3, 0.2, 0.5}
	if distance > styleCutoff {
		weights = [3]float64{0.5, 0.3, 0.2}
	}

	r := g.rng.Float64() * (weights[0] + weights[1] + weights[2])
	switch {
	case r < weights[0]:
		return styleBezier
	case r < weights[0]+weights[1]:
		return styleArc
	default:
		return styleCurvedDirect
	}
}
