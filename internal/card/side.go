package card

// Side is one of the four card edges.
type Side int

const (
	SideNone Side = iota
	SideTop
	SideRight
	SideBottom
	SideLeft
)

// Sides lists the four edges in index order (top, right, bottom, left).
var Sides = [4]Side{SideTop, SideRight, SideBottom, SideLeft}

type sideInfo struct {
	name  string
	label string
	color string
}

var sideTable = map[Side]sideInfo{
	SideNone:   {name: "none"},
	SideTop:    {name: "top", label: "Desarrollo", color: "red"},
	SideRight:  {name: "right", label: "Diseño Web", color: "blue"},
	SideBottom: {name: "bottom", label: "Creativos", color: "yellow"},
	SideLeft:   {name: "left", label: "Música", color: "green"},
}

// SideAt maps an index 0..3 to its edge. Any other index is SideNone.
func SideAt(index int) Side {
	if index < 0 || index >= len(Sides) {
		return SideNone
	}
	return Sides[index]
}

// ParseSide is the inverse of Side.String. Unknown names yield SideNone.
func ParseSide(name string) Side {
	for side, info := range sideTable {
		if info.name == name {
			return side
		}
	}
	return SideNone
}

func (s Side) String() string {
	if info, ok := sideTable[s]; ok {
		return info.name
	}
	return "none"
}

// Label is the section title emitted when the side is locked.
func (s Side) Label() string { return sideTable[s].label }

// Color is the neon shadow colour of the side.
func (s Side) Color() string { return sideTable[s].color }

// Mode distinguishes what an expanded card shows.
type Mode int

const (
	ModeNone Mode = iota
	ModeCV
	ModeSection
)

func (m Mode) String() string {
	switch m {
	case ModeCV:
		return "cv"
	case ModeSection:
		return "section"
	default:
		return "none"
	}
}
