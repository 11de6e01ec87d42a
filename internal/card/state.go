package card

// State is the discrete presentation state of the card. It is one of
// Grounded, Floating or Expanded.
type State interface {
	isState()
}

// Grounded is the initial resting card.
type Grounded struct{}

// Floating is the lifted card. Active is the hovered edge, Locked the
// committed one.
type Floating struct {
	Active Side
	Locked Side
}

// Expanded is the flipped, full-viewport card.
type Expanded struct {
	Mode Mode
	Side Side
}

func (Grounded) isState() {}
func (Floating) isState() {}
func (Expanded) isState() {}

// Rotation is a tilt in degrees around the x and y axes.
type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is the flattened view of a State plus the current rotation.
type Snapshot struct {
	Floating bool     `json:"floating"`
	Active   string   `json:"active"`
	Locked   string   `json:"locked"`
	Label    string   `json:"label,omitempty"`
	Flipped  bool     `json:"flipped"`
	Expanded bool     `json:"expanded"`
	Mode     string   `json:"mode"`
	Dragging bool     `json:"dragging"`
	Rotation Rotation `json:"rotation"`
}

func snapshotOf(state State, rotation Rotation, dragging bool) Snapshot {
	snap := Snapshot{
		Active:   SideNone.String(),
		Locked:   SideNone.String(),
		Mode:     ModeNone.String(),
		Dragging: dragging,
		Rotation: rotation,
	}
	switch s := state.(type) {
	case Floating:
		snap.Floating = true
		snap.Active = s.Active.String()
		snap.Locked = s.Locked.String()
		snap.Label = s.Locked.Label()
	case Expanded:
		snap.Floating = true
		snap.Flipped = true
		snap.Expanded = true
		snap.Mode = s.Mode.String()
		snap.Locked = s.Side.String()
	}
	return snap
}
