// Package card implements the business-card interaction state machine:
// it classifies pointer, touch and click input into discrete presentation
// states and supplies the target pose for each of them.
//
// A Machine is not safe for concurrent use; hosts serialise input the way
// a UI event loop would.
package card

// ClickSource is the "click outside the card" capability a host grants to
// the card. Subscribe returns the function that cancels the subscription.
type ClickSource interface {
	Subscribe(func()) (unsubscribe func())
}

// Option configures a Machine.
type Option func(*Machine)

// WithSelectHandler sets the section-selection callback.
func WithSelectHandler(fn func(key string)) Option {
	return func(m *Machine) { m.onSelect = fn }
}

// WithFloatingHandler sets the callback told about floating flag changes.
func WithFloatingHandler(fn func(floating bool)) Option {
	return func(m *Machine) { m.onFloating = fn }
}

// WithThresholds overrides the gesture thresholds.
func WithThresholds(t Thresholds) Option {
	return func(m *Machine) { m.thresholds = t }
}

type gesture struct {
	origin Point
	moved  bool
	touch  bool
}

// Machine is the card state machine.
type Machine struct {
	state      State
	rotation   Rotation
	drag       *gesture
	thresholds Thresholds

	onSelect   func(string)
	onFloating func(bool)

	unsubscribe func()
}

// New returns a grounded card.
func New(opts ...Option) *Machine {
	m := &Machine{
		state:      Grounded{},
		thresholds: DefaultThresholds,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current discrete state.
func (m *Machine) State() State { return m.state }

// Rotation returns the current tilt: the continuous drag rotation while
// dragging, otherwise the preset of the locked (or hovered) side.
func (m *Machine) Rotation() Rotation {
	if m.Dragging() {
		return m.rotation
	}
	preset, _, _ := presetTilt(m.tiltSide())
	return preset
}

func (m *Machine) tiltSide() Side {
	s, ok := m.state.(Floating)
	if !ok {
		return SideNone
	}
	if s.Locked != SideNone {
		return s.Locked
	}
	return s.Active
}

// Dragging reports whether a drag gesture is in progress.
func (m *Machine) Dragging() bool { return m.drag != nil && m.drag.moved }

// Snapshot returns the flattened state.
func (m *Machine) Snapshot() Snapshot {
	return snapshotOf(m.state, m.Rotation(), m.Dragging())
}

// Floating reports whether the card is lifted.
func (m *Machine) Floating() bool {
	_, grounded := m.state.(Grounded)
	return !grounded
}

// SetFloating is the parent-facing setter for the floating flag. Clearing
// it resets the card completely.
func (m *Machine) SetFloating(floating bool) {
	switch {
	case floating && !m.Floating():
		m.setState(Floating{})
	case !floating && m.Floating():
		m.Reset()
	}
}

// Mount subscribes to outside clicks. A previous subscription is replaced.
func (m *Machine) Mount(src ClickSource) {
	m.Unmount()
	if src == nil {
		return
	}
	m.unsubscribe = src.Subscribe(func() { m.Click(TargetOutside) })
}

// Unmount cancels the outside-click subscription.
func (m *Machine) Unmount() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Reset returns the card to its exact initial state.
func (m *Machine) Reset() {
	m.drag = nil
	m.rotation = Rotation{}
	m.setState(Grounded{})
}

// Click handles a mouse click on target.
func (m *Machine) Click(target Target) {
	m.click(target, false)
}

func (m *Machine) click(target Target, tap bool) {
	switch s := m.state.(type) {
	case Grounded:
		if target == TargetCard {
			m.setState(Floating{})
		}
	case Floating:
		switch {
		case s.Locked != SideNone && target == TargetLabel:
			m.setState(Floating{Active: s.Active})
			if m.onSelect != nil {
				m.onSelect(s.Locked.Label())
			}
		case s.Locked != SideNone && (target == TargetCard || target == TargetOutside):
			m.setState(Floating{Active: s.Active})
		case target != TargetCard:
		case s.Active != SideNone:
			m.setState(Floating{Active: s.Active, Locked: s.Active})
		case !tap:
			m.flip()
		}
	case Expanded:
		if target == TargetBackdrop {
			m.Reset()
		}
	}
}

// DoubleClick resets any lifted card to the initial state.
func (m *Machine) DoubleClick() {
	if m.Floating() {
		m.Reset()
	}
}

// Expand opens a locked side in place as a section.
func (m *Machine) Expand() {
	if s, ok := m.state.(Floating); ok && s.Locked != SideNone {
		m.drag = nil
		m.rotation = Rotation{}
		m.setState(Expanded{Mode: ModeSection, Side: s.Locked})
	}
}

// PointerMove updates the hovered edge while the card floats.
func (m *Machine) PointerMove(p Point, bounds Rect) {
	s, ok := m.state.(Floating)
	if !ok || m.drag != nil {
		return
	}
	s.Active = nearestSide(p, bounds, m.thresholds.Proximity)
	m.state = s
}

// PointerDown starts a potential mouse drag.
func (m *Machine) PointerDown(p Point) {
	m.begin(p, false)
}

// PointerDrag tracks a pressed mouse pointer.
func (m *Machine) PointerDrag(p Point) {
	m.track(p)
}

// PointerUp ends the press. Short presses are clicks on target.
func (m *Machine) PointerUp(p Point, target Target) {
	m.track(p)
	m.end(target)
}

// PointerCancel drops the current press without classifying it.
func (m *Machine) PointerCancel() {
	m.drag = nil
	m.rotation = Rotation{}
}

// TouchStart starts a potential touch drag.
func (m *Machine) TouchStart(p Point) {
	m.begin(p, true)
}

// TouchMove tracks a touch.
func (m *Machine) TouchMove(p Point) {
	m.track(p)
}

// TouchEnd ends the touch. Taps act like clicks but never flip the card.
func (m *Machine) TouchEnd(target Target) {
	m.end(target)
}

func (m *Machine) begin(p Point, touch bool) {
	m.drag = &gesture{origin: p, touch: touch}
}

func (m *Machine) track(p Point) {
	if m.drag == nil {
		return
	}
	if !m.drag.moved && distance(m.drag.origin, p) < m.thresholds.Slop {
		return
	}
	if _, ok := m.state.(Floating); !ok {
		return
	}
	m.drag.moved = true
	m.rotation = dragRotation(m.drag.origin, p, m.thresholds.Sensitivity)
}

func (m *Machine) end(target Target) {
	g := m.drag
	m.drag = nil
	if g == nil || !g.moved {
		touch := g != nil && g.touch
		m.click(target, touch)
		return
	}
	s, ok := m.state.(Floating)
	if !ok {
		return
	}
	flip := m.thresholds.Flip
	if g.touch {
		flip = m.thresholds.TouchFlip
	}
	magnitude, side := dominant(m.rotation)
	m.rotation = Rotation{}
	switch {
	case magnitude < m.thresholds.Reset:
		m.setState(Floating{})
	case magnitude > flip:
		m.flip()
	default:
		m.setState(Floating{Active: s.Active, Locked: side})
	}
}

func (m *Machine) flip() {
	m.rotation = Rotation{}
	m.setState(Expanded{Mode: ModeCV})
}

func (m *Machine) setState(next State) {
	was := m.Floating()
	m.state = next
	if now := m.Floating(); now != was && m.onFloating != nil {
		m.onFloating(now)
	}
}
