package card

import "math"

// Point is a screen position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the card's bounding box in screen pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Target names what a click landed on.
type Target int

const (
	TargetCard Target = iota
	TargetLabel
	TargetBackdrop
	TargetOutside
)

// ParseTarget maps the client-side target name to a Target.
func ParseTarget(name string) Target {
	switch name {
	case "label":
		return TargetLabel
	case "backdrop":
		return TargetBackdrop
	case "outside":
		return TargetOutside
	default:
		return TargetCard
	}
}

// Thresholds holds the gesture classification constants.
type Thresholds struct {
	Proximity   float64 // px from an edge that highlights it
	Slop        float64 // px of movement below which a press is a click
	Sensitivity float64 // degrees per px of drag offset
	Reset       float64 // degrees below which a drag snaps back
	Flip        float64 // degrees above which a mouse drag flips
	TouchFlip   float64 // degrees above which a touch drag flips
}

// DefaultThresholds are the values the card ships with.
var DefaultThresholds = Thresholds{
	Proximity:   30,
	Slop:        5,
	Sensitivity: 0.5,
	Reset:       10,
	Flip:        120,
	TouchFlip:   150,
}

// nearestSide returns the closest edge of bounds within the proximity
// distance of p, or SideNone.
func nearestSide(p Point, bounds Rect, proximity float64) Side {
	if p.X < bounds.X-proximity || p.X > bounds.X+bounds.W+proximity ||
		p.Y < bounds.Y-proximity || p.Y > bounds.Y+bounds.H+proximity {
		return SideNone
	}
	distances := [4]float64{
		math.Abs(p.Y - bounds.Y),
		math.Abs(bounds.X + bounds.W - p.X),
		math.Abs(bounds.Y + bounds.H - p.Y),
		math.Abs(p.X - bounds.X),
	}
	best, bestDist := SideNone, proximity
	for i, d := range distances {
		if d <= bestDist {
			best, bestDist = Sides[i], d
		}
	}
	return best
}

// dragRotation converts a drag offset into a continuous tilt.
// Dragging up tilts the top edge away, dragging right the right edge.
func dragRotation(from, to Point, sensitivity float64) Rotation {
	return Rotation{
		X: -(to.Y - from.Y) * sensitivity,
		Y: (to.X - from.X) * sensitivity,
	}
}

// dominant returns the larger absolute axis rotation and the side it
// points at.
func dominant(r Rotation) (float64, Side) {
	ax, ay := math.Abs(r.X), math.Abs(r.Y)
	if ax == 0 && ay == 0 {
		return 0, SideNone
	}
	if ax >= ay {
		if r.X > 0 {
			return ax, SideTop
		}
		return ax, SideBottom
	}
	if r.Y > 0 {
		return ay, SideRight
	}
	return ay, SideLeft
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
