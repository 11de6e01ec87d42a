package card

import "testing"

var bounds = Rect{X: 0, Y: 0, W: 200, H: 100}

func floating(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	m := New(opts...)
	m.Click(TargetCard)
	if _, ok := m.State().(Floating); !ok {
		t.Fatalf("state after first click = %#v, want Floating", m.State())
	}
	return m
}

func mouseDrag(m *Machine, dx, dy float64) {
	start := Point{X: 100, Y: 50}
	end := Point{X: start.X + dx, Y: start.Y + dy}
	m.PointerDown(start)
	m.PointerDrag(end)
	m.PointerUp(end, TargetCard)
}

func touchDrag(m *Machine, dx, dy float64) {
	start := Point{X: 100, Y: 50}
	m.TouchStart(start)
	m.TouchMove(Point{X: start.X + dx, Y: start.Y + dy})
	m.TouchEnd(TargetCard)
}

func TestNewIsGrounded(t *testing.T) {
	m := New()
	want := Snapshot{Active: "none", Locked: "none", Mode: "none"}
	if got := m.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}
	if m.Floating() {
		t.Fatal("new card is floating")
	}
}

func TestPointerMoveHighlightsNearestEdge(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want Side
	}{
		{"top", Point{X: 100, Y: 5}, SideTop},
		{"right", Point{X: 195, Y: 50}, SideRight},
		{"bottom", Point{X: 100, Y: 120}, SideBottom},
		{"left", Point{X: -20, Y: 50}, SideLeft},
		{"centre", Point{X: 100, Y: 50}, SideNone},
		{"far away", Point{X: 100, Y: -40}, SideNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := floating(t)
			m.PointerMove(tt.p, bounds)
			s := m.State().(Floating)
			if s.Active != tt.want {
				t.Fatalf("Active = %v, want %v", s.Active, tt.want)
			}
			if s.Locked != SideNone {
				t.Fatalf("hover locked %v", s.Locked)
			}
		})
	}
}

func TestPointerMoveIgnoredWhenGrounded(t *testing.T) {
	m := New()
	m.PointerMove(Point{X: 100, Y: 2}, bounds)
	if _, ok := m.State().(Grounded); !ok {
		t.Fatalf("state = %#v, want Grounded", m.State())
	}
}

func TestLockAndSelectSection(t *testing.T) {
	var selected []string
	m := floating(t, WithSelectHandler(func(key string) { selected = append(selected, key) }))

	m.PointerMove(Point{X: 100, Y: 3}, bounds)
	m.Click(TargetCard)
	if s := m.State().(Floating); s.Locked != SideTop {
		t.Fatalf("Locked = %v, want top", s.Locked)
	}
	if got := m.Snapshot().Label; got != "Desarrollo" {
		t.Fatalf("Label = %q, want Desarrollo", got)
	}
	if got := m.Rotation(); got != (Rotation{X: 15}) {
		t.Fatalf("Rotation() = %+v, want top preset", got)
	}

	m.Click(TargetLabel)
	if len(selected) != 1 || selected[0] != "Desarrollo" {
		t.Fatalf("selected = %v, want [Desarrollo]", selected)
	}
	snap := m.Snapshot()
	if snap.Expanded || snap.Locked != "none" {
		t.Fatalf("after selection snapshot = %+v", snap)
	}
}

func TestLockedSideUnlocks(t *testing.T) {
	for _, target := range []Target{TargetCard, TargetOutside} {
		m := floating(t)
		m.PointerMove(Point{X: 2, Y: 50}, bounds)
		m.Click(TargetCard)
		m.PointerMove(Point{X: 100, Y: 50}, bounds)
		m.Click(target)
		s := m.State().(Floating)
		if s.Locked != SideNone {
			t.Fatalf("target %v: Locked = %v, want none", target, s.Locked)
		}
	}
}

func TestLabelWithoutLockDoesNothing(t *testing.T) {
	called := false
	m := floating(t, WithSelectHandler(func(string) { called = true }))
	m.Click(TargetLabel)
	if called {
		t.Fatal("select handler fired without a locked side")
	}
	if _, ok := m.State().(Floating); !ok {
		t.Fatalf("state = %#v, want Floating", m.State())
	}
}

func TestMouseClickOnBareCardFlipsToCV(t *testing.T) {
	m := floating(t)
	m.Click(TargetCard)
	if got, want := m.State(), (Expanded{Mode: ModeCV}); got != want {
		t.Fatalf("state = %#v, want %#v", got, want)
	}
	snap := m.Snapshot()
	if !snap.Flipped || !snap.Expanded || snap.Mode != "cv" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestTouchTapNeverFlips(t *testing.T) {
	m := floating(t)
	m.TouchStart(Point{X: 50, Y: 50})
	m.TouchMove(Point{X: 52, Y: 51})
	m.TouchEnd(TargetCard)
	if _, ok := m.State().(Floating); !ok {
		t.Fatalf("state = %#v, want Floating", m.State())
	}
}

func TestTouchTapLiftsGroundedCard(t *testing.T) {
	m := New()
	m.TouchStart(Point{X: 50, Y: 50})
	m.TouchEnd(TargetCard)
	if !m.Floating() {
		t.Fatal("tap did not lift the card")
	}
}

func TestDragClassification(t *testing.T) {
	tests := []struct {
		name     string
		touch    bool
		dx, dy   float64
		want     State
		rotation Rotation
	}{
		{"small drag resets", false, 12, 0, Floating{}, Rotation{}},
		{"small vertical drag resets", false, 0, -18, Floating{}, Rotation{}},
		{"up snaps top", false, 0, -40, Floating{Locked: SideTop}, Rotation{X: 15}},
		{"down snaps bottom", false, 10, 60, Floating{Locked: SideBottom}, Rotation{X: -15}},
		{"right snaps right", false, 100, 20, Floating{Locked: SideRight}, Rotation{Y: 15}},
		{"left snaps left", false, -80, 0, Floating{Locked: SideLeft}, Rotation{Y: -15}},
		{"long horizontal drag flips", false, -300, 0, Expanded{Mode: ModeCV}, Rotation{}},
		{"long vertical drag flips", false, 0, 260, Expanded{Mode: ModeCV}, Rotation{}},
		{"touch below touch flip snaps", true, -260, 0, Floating{Locked: SideLeft}, Rotation{Y: -15}},
		{"touch above touch flip flips", true, 320, 0, Expanded{Mode: ModeCV}, Rotation{}},
		{"touch small drag resets", true, 0, 10, Floating{}, Rotation{}},
		{"just under reset resets", false, 19, 0, Floating{}, Rotation{}},
		{"exactly reset snaps", false, 20, 0, Floating{Locked: SideRight}, Rotation{Y: 15}},
		{"exactly mouse flip snaps", false, 240, 0, Floating{Locked: SideRight}, Rotation{Y: 15}},
		{"just over mouse flip flips", false, 242, 0, Expanded{Mode: ModeCV}, Rotation{}},
		{"exactly touch flip snaps", true, -300, 0, Floating{Locked: SideLeft}, Rotation{Y: -15}},
		{"just over touch flip flips", true, 0, -302, Expanded{Mode: ModeCV}, Rotation{}},
		{"diagonal tie prefers x axis", false, 40, -40, Floating{Locked: SideTop}, Rotation{X: 15}},
		{"downward tie prefers x axis", false, -40, 40, Floating{Locked: SideBottom}, Rotation{X: -15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := floating(t)
			if tt.touch {
				touchDrag(m, tt.dx, tt.dy)
			} else {
				mouseDrag(m, tt.dx, tt.dy)
			}
			if got := m.State(); got != tt.want {
				t.Fatalf("state = %#v, want %#v", got, tt.want)
			}
			if got := m.Rotation(); got != tt.rotation {
				t.Fatalf("Rotation() = %+v, want %+v", got, tt.rotation)
			}
		})
	}
}

func TestDragSuppressesPresetTilt(t *testing.T) {
	m := floating(t)
	m.PointerMove(Point{X: 100, Y: 2}, bounds)
	m.PointerDown(Point{X: 100, Y: 50})
	m.PointerDrag(Point{X: 140, Y: 50})
	if !m.Dragging() {
		t.Fatal("not dragging after moving past slop")
	}
	if got, want := m.Rotation(), (Rotation{Y: 20}); got != want {
		t.Fatalf("Rotation() = %+v, want %+v", got, want)
	}
	m.PointerMove(Point{X: 2, Y: 50}, bounds)
	if s := m.State().(Floating); s.Active != SideTop {
		t.Fatalf("hover changed mid-drag: %v", s.Active)
	}
	pose := m.Pose()
	if pose.TranslateX != 0 || pose.TranslateY != 0 || pose.RotateY != 20 {
		t.Fatalf("Pose() = %+v, want pure drag rotation", pose)
	}
}

func TestPointerCancelDropsDrag(t *testing.T) {
	m := floating(t)
	m.PointerDown(Point{X: 100, Y: 50})
	m.PointerDrag(Point{X: 400, Y: 50})
	m.PointerCancel()
	if m.Dragging() || m.Rotation() != (Rotation{}) {
		t.Fatalf("after cancel dragging=%v rotation=%+v", m.Dragging(), m.Rotation())
	}
	if _, ok := m.State().(Floating); !ok {
		t.Fatalf("state = %#v, want Floating", m.State())
	}
	m.PointerMove(Point{X: 2, Y: 50}, bounds)
	if s := m.State().(Floating); s.Active != SideLeft {
		t.Fatalf("hover after cancel: active = %v, want left", s.Active)
	}
}

func TestDragIgnoredWhenGrounded(t *testing.T) {
	m := New()
	mouseDrag(m, 200, 0)
	if !m.Floating() {
		t.Fatal("press and release on a grounded card should lift it")
	}
	if m.Rotation() != (Rotation{}) {
		t.Fatalf("Rotation() = %+v", m.Rotation())
	}
}

func TestDoubleClickRestoresInitialState(t *testing.T) {
	initial := New().Snapshot()
	setups := map[string]func(*Machine){
		"floating": func(*Machine) {},
		"locked": func(m *Machine) {
			m.PointerMove(Point{X: 199, Y: 50}, bounds)
			m.Click(TargetCard)
		},
		"expanded": func(m *Machine) { m.Click(TargetCard) },
		"section": func(m *Machine) {
			m.PointerMove(Point{X: 100, Y: 99}, bounds)
			m.Click(TargetCard)
			m.Expand()
		},
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			m := floating(t)
			setup(m)
			m.DoubleClick()
			if got := m.Snapshot(); got != initial {
				t.Fatalf("Snapshot() = %+v, want %+v", got, initial)
			}
		})
	}
}

func TestBackdropClickResetsExpanded(t *testing.T) {
	m := floating(t)
	m.Click(TargetCard)
	m.Click(TargetCard)
	if _, ok := m.State().(Expanded); !ok {
		t.Fatalf("card click changed expanded card: %#v", m.State())
	}
	m.Click(TargetBackdrop)
	if _, ok := m.State().(Grounded); !ok {
		t.Fatalf("state = %#v, want Grounded", m.State())
	}
}

func TestExpandOpensLockedSection(t *testing.T) {
	m := floating(t)
	m.Expand()
	if _, ok := m.State().(Floating); !ok {
		t.Fatal("Expand without a locked side changed state")
	}
	m.PointerMove(Point{X: 100, Y: 98}, bounds)
	m.Click(TargetCard)
	m.Expand()
	if got, want := m.State(), (Expanded{Mode: ModeSection, Side: SideBottom}); got != want {
		t.Fatalf("state = %#v, want %#v", got, want)
	}
}

func TestFloatingHandler(t *testing.T) {
	var changes []bool
	m := New(WithFloatingHandler(func(f bool) { changes = append(changes, f) }))
	m.Click(TargetCard)
	m.Click(TargetCard)
	m.DoubleClick()
	m.SetFloating(true)
	m.SetFloating(true)
	m.SetFloating(false)
	want := []bool{true, false, true, false}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("changes = %v, want %v", changes, want)
		}
	}
}

type fakeClicks struct {
	subscribers map[int]func()
	next        int
}

func (f *fakeClicks) Subscribe(fn func()) func() {
	if f.subscribers == nil {
		f.subscribers = map[int]func(){}
	}
	id := f.next
	f.next++
	f.subscribers[id] = fn
	return func() { delete(f.subscribers, id) }
}

func (f *fakeClicks) click() {
	for _, fn := range f.subscribers {
		fn()
	}
}

func TestOutsideClickCapability(t *testing.T) {
	clicks := &fakeClicks{}
	m := floating(t)
	m.Mount(clicks)
	m.PointerMove(Point{X: 100, Y: 1}, bounds)
	m.Click(TargetCard)

	clicks.click()
	if s := m.State().(Floating); s.Locked != SideNone {
		t.Fatalf("outside click left %v locked", s.Locked)
	}

	m.Unmount()
	if len(clicks.subscribers) != 0 {
		t.Fatalf("%d subscribers after Unmount", len(clicks.subscribers))
	}
}

func TestSideAt(t *testing.T) {
	for i, want := range []Side{SideTop, SideRight, SideBottom, SideLeft, SideNone} {
		if got := SideAt(i); got != want {
			t.Errorf("SideAt(%d) = %v, want %v", i, got, want)
		}
	}
	if got := SideAt(-1); got != SideNone {
		t.Errorf("SideAt(-1) = %v", got)
	}
	if got := ParseSide(SideLeft.String()); got != SideLeft {
		t.Errorf("ParseSide round trip = %v", got)
	}
}
