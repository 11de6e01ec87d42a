// Package preview is a terminal rendition of the portfolio. It drives the
// same card state machine as the web server from terminal mouse events.
package preview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/laureanodiez/tarjeta/internal/card"
	"github.com/laureanodiez/tarjeta/internal/content"
	"github.com/laureanodiez/tarjeta/internal/motion"
	"github.com/laureanodiez/tarjeta/internal/view"
)

const (
	cellWidth   = 8  // px per terminal column
	cellHeight  = 16 // px per terminal row
	cardCols    = 40
	cardRows    = 9
	frame       = time.Second / 60
	doubleClick = 400 * time.Millisecond
)

type tickMsg time.Time

// outsideClicks is the capability the preview grants to the card.
type outsideClicks struct {
	subscribers []func()
}

func (o *outsideClicks) Subscribe(fn func()) func() {
	o.subscribers = append(o.subscribers, fn)
	i := len(o.subscribers) - 1
	return func() { o.subscribers[i] = nil }
}

func (o *outsideClicks) publish() {
	for _, fn := range o.subscribers {
		if fn != nil {
			fn()
		}
	}
}

// Model is the bubbletea model of the preview.
type Model struct {
	registry *content.Registry
	profile  content.Profile
	card     *card.Machine
	router   view.Router
	animator *motion.Animator
	clicks   outsideClicks

	width, height int
	cursor        int
	lastRelease   time.Time
	pressOutside  bool
	now           func() time.Time
}

// New builds the preview model.
func New(registry *content.Registry, profile content.Profile) *Model {
	m := &Model{
		registry: registry,
		profile:  profile,
		width:    80,
		height:   24,
		now:      time.Now,
	}
	m.card = card.New(card.WithSelectHandler(func(key string) {
		m.router.Select(key)
	}))
	m.card.Mount(&m.clicks)
	m.animator = motion.NewAnimator(motion.DefaultSpring, m.card.Pose())
	return m
}

// Run starts the program on the terminal with all-motion mouse tracking.
func Run(registry *content.Registry, profile content.Profile) error {
	program := tea.NewProgram(New(registry, profile), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		m.animator.SetTarget(m.card.Pose())
		m.animator.Step(frame)
		return m, tick()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if m.router.Current() == view.ViewCard {
			m.handleMouse(msg)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.card.Unmount()
		return tea.Quit
	case "m":
		m.router.TogglePortfolioMode()
		m.cursor = 0
	case "b", "esc":
		m.router.Back()
	case "e":
		m.card.Expand()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.registry.Menu())-1 {
			m.cursor++
		}
	case "enter":
		if m.router.Current() == view.ViewMenu {
			if items := m.registry.Menu(); m.cursor < len(items) {
				m.router.Select(items[m.cursor].Key)
			}
		}
	}
	return nil
}

func (m *Model) cardBounds() card.Rect {
	x, y := m.cardOrigin()
	return card.Rect{
		X: float64(x * cellWidth),
		Y: float64(y * cellHeight),
		W: cardCols * cellWidth,
		H: cardRows * cellHeight,
	}
}

func (m *Model) cardOrigin() (int, int) {
	return max(0, (m.width-cardCols)/2), max(0, (m.height-cardRows)/2)
}

func toPoint(msg tea.MouseMsg) card.Point {
	return card.Point{
		X: float64(msg.X*cellWidth + cellWidth/2),
		Y: float64(msg.Y*cellHeight + cellHeight/2),
	}
}

// targetAt classifies a terminal cell. The label sits one row or column
// outside the locked edge.
func (m *Model) targetAt(msg tea.MouseMsg) card.Target {
	x, y := m.cardOrigin()
	inCard := msg.X >= x && msg.X < x+cardCols && msg.Y >= y && msg.Y < y+cardRows
	if inCard {
		return card.TargetCard
	}
	snap := m.card.Snapshot()
	if snap.Expanded {
		return card.TargetBackdrop
	}
	switch card.ParseSide(snap.Locked) {
	case card.SideTop:
		if msg.Y == y-1 {
			return card.TargetLabel
		}
	case card.SideBottom:
		if msg.Y == y+cardRows {
			return card.TargetLabel
		}
	case card.SideLeft:
		if msg.X < x && msg.Y >= y && msg.Y < y+cardRows {
			return card.TargetLabel
		}
	case card.SideRight:
		if msg.X >= x+cardCols && msg.Y >= y && msg.Y < y+cardRows {
			return card.TargetLabel
		}
	}
	return card.TargetOutside
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := toPoint(msg)
	switch msg.Action {
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonNone {
			m.card.PointerMove(p, m.cardBounds())
			return
		}
		if !m.pressOutside {
			m.card.PointerDrag(p)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.pressOutside = m.targetAt(msg) == card.TargetOutside
		if m.pressOutside {
			m.clicks.publish()
			return
		}
		m.card.PointerDown(p)
	case tea.MouseActionRelease:
		if m.pressOutside {
			m.pressOutside = false
			return
		}
		m.card.PointerUp(p, m.targetAt(msg))
		now := m.now()
		if now.Sub(m.lastRelease) < doubleClick {
			m.card.DoubleClick()
			m.lastRelease = time.Time{}
			return
		}
		m.lastRelease = now
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	sideColors  = map[string]lipgloss.Color{
		"red": lipgloss.Color("9"), "blue": lipgloss.Color("12"),
		"yellow": lipgloss.Color("11"), "green": lipgloss.Color("10"),
	}
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.router.Current() {
	case view.ViewSection:
		key, _ := m.router.Selected()
		body = m.sectionView(key)
	case view.ViewMenu:
		body = m.menuView()
	default:
		body = m.cardView()
	}
	header := titleStyle.Render(m.profile.Name) + "  " + mutedStyle.Render(m.profile.Headline+" · "+m.router.ToggleLabel()+" (m)")
	help := mutedStyle.Render("click: flotar/fijar · arrastrar: girar · doble click: reiniciar · e: abrir · q: salir")
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.Place(m.width, max(1, m.height-2), lipgloss.Center, lipgloss.Center, body), help)
}

func (m *Model) cardView() string {
	snap := m.card.Snapshot()
	pose := m.animator.Current()

	border := lipgloss.NormalBorder()
	if !snap.Floating {
		border = lipgloss.HiddenBorder()
	}
	style := lipgloss.NewStyle().
		Border(border).
		Width(cardCols - 2).
		Height(cardRows - 2).
		Align(lipgloss.Center, lipgloss.Center)

	side := card.ParseSide(snap.Locked)
	if side == card.SideNone {
		side = card.ParseSide(snap.Active)
	}
	if color, ok := sideColors[side.Color()]; ok {
		style = style.BorderForeground(color)
	}

	face := titleStyle.Render(m.profile.Name) + "\n" + m.profile.Headline
	if pose.RotateY > 90 || pose.RotateY < -90 {
		face = titleStyle.Render("CV") + "\n" + mutedStyle.Render("/files/cv.pdf")
		if snap.Mode == card.ModeSection.String() {
			if entry, ok := m.registry.Lookup(card.ParseSide(snap.Locked).Label()); ok {
				face = titleStyle.Render(entry.Title)
			}
		}
	}
	face += "\n\n" + mutedStyle.Render(fmt.Sprintf("x %5.1f°  y %5.1f°  z %5.1f°  ×%.2f",
		pose.RotateX, pose.RotateY, pose.RotateZ, pose.Scale))
	rendered := style.Render(face)

	if snap.Label != "" {
		label := lipgloss.NewStyle().Bold(true).Foreground(sideColors[card.ParseSide(snap.Locked).Color()]).Render(snap.Label)
		switch card.ParseSide(snap.Locked) {
		case card.SideTop:
			rendered = lipgloss.JoinVertical(lipgloss.Center, label, rendered)
		case card.SideBottom:
			rendered = lipgloss.JoinVertical(lipgloss.Center, rendered, label)
		case card.SideLeft:
			rendered = lipgloss.JoinHorizontal(lipgloss.Center, label+" ", rendered)
		case card.SideRight:
			rendered = lipgloss.JoinHorizontal(lipgloss.Center, rendered, " "+label)
		}
	}
	return rendered
}

func (m *Model) menuView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Menú de Secciones") + "\n\n")
	for i, item := range m.registry.Menu() {
		line := "  " + item.Title
		if i == m.cursor {
			line = cursorStyle.Render("› " + item.Title)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) sectionView(key string) string {
	page := m.registry.Render(key)
	var b strings.Builder
	b.WriteString(mutedStyle.Render("← Volver (b)") + "\n\n")
	b.WriteString(titleStyle.Render(page.Title) + "\n\n")
	if entry, ok := m.registry.Lookup(key); ok {
		b.WriteString(lipgloss.NewStyle().Width(min(72, max(20, m.width-4))).Render(entry.Description) + "\n\n")
		for _, media := range entry.Media {
			b.WriteString(fmt.Sprintf("[%s] %s\n", media.Kind, media.URL))
		}
	} else {
		b.WriteString("No hay contenido para " + key + ".\n")
	}
	return b.String()
}
