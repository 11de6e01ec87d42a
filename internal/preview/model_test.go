package preview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/laureanodiez/tarjeta/internal/card"
	"github.com/laureanodiez/tarjeta/internal/content"
	"github.com/laureanodiez/tarjeta/internal/view"
)

// With an 80x24 terminal the card covers columns 20-59 and rows 7-15.
func newTestModel(t *testing.T) (*Model, *time.Time) {
	t.Helper()
	m := New(content.Default(), content.DefaultProfile)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, &clock
}

func press(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func release(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
}

func click(m *Model, clock *time.Time, x, y int) {
	*clock = clock.Add(time.Second)
	press(m, x, y)
	release(m, x, y)
}

func hover(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
}

func key(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestClickLiftsCard(t *testing.T) {
	m, clock := newTestModel(t)
	click(m, clock, 40, 11)
	if !m.card.Floating() {
		t.Fatal("card should float after a click")
	}
}

func TestLockAndSelectThroughLabel(t *testing.T) {
	m, clock := newTestModel(t)
	click(m, clock, 40, 11)
	hover(m, 40, 7)
	if got := m.card.Snapshot().Active; got != "top" {
		t.Fatalf("active = %q, want top", got)
	}
	click(m, clock, 40, 7)
	if got := m.card.Snapshot().Locked; got != "top" {
		t.Fatalf("locked = %q, want top", got)
	}
	if !strings.Contains(m.View(), "Desarrollo") {
		t.Error("locked card should show its label")
	}

	click(m, clock, 40, 6)
	if m.router.Current() != view.ViewSection {
		t.Fatalf("view = %v, want section", m.router.Current())
	}
	if key, _ := m.router.Selected(); key != "Desarrollo" {
		t.Errorf("selected = %q, want Desarrollo", key)
	}
	if !strings.Contains(m.View(), "Volver") {
		t.Error("section view should offer a way back")
	}
}

func TestOutsideClickUnlocks(t *testing.T) {
	m, clock := newTestModel(t)
	click(m, clock, 40, 11)
	hover(m, 59, 11)
	click(m, clock, 59, 11)
	if got := m.card.Snapshot().Locked; got != "right" {
		t.Fatalf("locked = %q, want right", got)
	}
	click(m, clock, 2, 2)
	snap := m.card.Snapshot()
	if snap.Locked != "" || !snap.Floating {
		t.Errorf("after outside click: %+v", snap)
	}
}

func TestDragLocksSide(t *testing.T) {
	m, clock := newTestModel(t)
	click(m, clock, 40, 11)
	*clock = clock.Add(time.Second)
	press(m, 40, 11)
	m.Update(tea.MouseMsg{X: 40, Y: 13, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if !m.card.Dragging() {
		t.Fatal("card should be dragging")
	}
	release(m, 40, 13)
	if got := m.card.Snapshot().Locked; got != "bottom" {
		t.Errorf("locked = %q, want bottom", got)
	}
}

func TestDoubleClickResets(t *testing.T) {
	m, clock := newTestModel(t)
	click(m, clock, 40, 11)
	*clock = clock.Add(time.Second)
	press(m, 40, 11)
	release(m, 40, 11)
	*clock = clock.Add(100 * time.Millisecond)
	press(m, 40, 11)
	release(m, 40, 11)
	if _, ok := m.card.State().(card.Grounded); !ok {
		t.Errorf("state = %#v, want Grounded", m.card.State())
	}
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	key(m, runes("m"))
	if m.router.Current() != view.ViewMenu {
		t.Fatalf("view = %v, want menu", m.router.Current())
	}
	if !strings.Contains(m.View(), "Menú de Secciones") {
		t.Error("menu view missing title")
	}
	key(m, tea.KeyMsg{Type: tea.KeyDown})
	key(m, tea.KeyMsg{Type: tea.KeyEnter})
	want := content.Default().Menu()[1].Key
	if got, _ := m.router.Selected(); got != want {
		t.Errorf("selected = %q, want %q", got, want)
	}
	key(m, runes("b"))
	if m.router.Current() != view.ViewMenu {
		t.Errorf("back should return to the menu, got %v", m.router.Current())
	}
}

func TestMouseIgnoredOutsideCardView(t *testing.T) {
	m, clock := newTestModel(t)
	key(m, runes("m"))
	click(m, clock, 40, 11)
	if m.card.Floating() {
		t.Error("mouse events should not reach the card from the menu")
	}
}

func TestTickAnimatesTowardsPose(t *testing.T) {
	m, clock := newTestModel(t)
	click(m, clock, 40, 11)
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next frame")
	}
	if got := m.animator.Current().Scale; got <= 1 || got >= 1.2 {
		t.Errorf("scale after one frame = %v, want between 1 and 1.2", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	if cmd := key(m, runes("q")); cmd == nil {
		t.Fatal("q should quit")
	}
	if m.card.Snapshot().Floating {
		t.Error("card should stay grounded")
	}
}
