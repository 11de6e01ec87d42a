package web

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laureanodiez/tarjeta/internal/card"
	"github.com/laureanodiez/tarjeta/internal/content"
	"github.com/laureanodiez/tarjeta/internal/view"
)

type sideData struct {
	Name   string
	Label  string
	Color  string
	Active bool
	Locked bool
}

type cardData struct {
	State      card.Snapshot
	Transform  template.CSS
	Reflection card.Point
	Sides      []sideData
}

type pageData struct {
	Profile        content.Profile
	View           string
	ToggleLabel    string
	Blurred        bool
	LoadingDelayMs int64
	Card           cardData
	Menu           []content.MenuItem
	Section        content.Page
}

// pageFor snapshots everything the templates need. Callers hold sess.mu.
func (s *Server) pageFor(sess *session) pageData {
	data := pageData{
		Profile:        s.profile,
		View:           sess.router.Current().String(),
		ToggleLabel:    sess.router.ToggleLabel(),
		Blurred:        sess.blurred,
		LoadingDelayMs: s.cfg.LoadingDelay.Milliseconds(),
	}
	switch sess.router.Current() {
	case view.ViewSection:
		key, _ := sess.router.Selected()
		data.Section = s.registry.Render(key)
	case view.ViewMenu:
		data.Menu = s.registry.Menu()
	default:
		data.Card = cardDataFor(sess.card)
	}
	return data
}

func cardDataFor(m *card.Machine) cardData {
	snap := m.Snapshot()
	data := cardData{
		State:      snap,
		Transform:  template.CSS(m.Pose().Matrix3D()),
		Reflection: card.Reflection(snap.Rotation),
	}
	for _, side := range card.Sides {
		data.Sides = append(data.Sides, sideData{
			Name:   side.String(),
			Label:  side.Label(),
			Color:  side.Color(),
			Active: snap.Active == side.String(),
			Locked: snap.Locked == side.String(),
		})
	}
	return data
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	data := s.pageFor(sess)
	sess.mu.Unlock()
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) handleView(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	data := s.pageFor(sess)
	sess.mu.Unlock()
	c.HTML(http.StatusOK, "fragment.html", data)
}

// cardEvent is one raw input event forwarded by the browser.
type cardEvent struct {
	Type   string    `json:"type" binding:"required,oneof=click dblclick hover pointerdown pointermove pointerup pointercancel touchstart touchmove touchend expand floating"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Target string    `json:"target"`
	Bounds card.Rect `json:"bounds"`
	On     bool      `json:"on"`
	Stream string    `json:"stream"`
	Seq    int64     `json:"seq"`
}

type cardResponse struct {
	State      card.Snapshot `json:"state"`
	Pose       card.Pose     `json:"pose"`
	Transform  string        `json:"transform"`
	Reflection card.Point    `json:"reflection"`
	View       string        `json:"view"`
	Selected   string        `json:"selected,omitempty"`
	Blurred    bool          `json:"blurred"`
	Seq        int64         `json:"seq"`
	Stale      bool          `json:"stale,omitempty"`
}

func applyEvent(m *card.Machine, clicks *clickBus, ev cardEvent) {
	p := card.Point{X: ev.X, Y: ev.Y}
	target := card.ParseTarget(ev.Target)
	switch ev.Type {
	case "click":
		if target == card.TargetOutside {
			clicks.publish()
			return
		}
		m.Click(target)
	case "dblclick":
		m.DoubleClick()
	case "hover":
		m.PointerMove(p, ev.Bounds)
	case "pointerdown":
		m.PointerDown(p)
	case "pointermove":
		m.PointerDrag(p)
	case "pointerup":
		m.PointerUp(p, target)
	case "pointercancel":
		m.PointerCancel()
	case "touchstart":
		m.TouchStart(p)
	case "touchmove":
		m.TouchMove(p)
	case "touchend":
		m.TouchEnd(target)
	case "expand":
		m.Expand()
	case "floating":
		m.SetFloating(ev.On)
	}
}

func (s *Server) handleCardEvent(c *gin.Context) {
	var ev cardEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	sess.mu.Lock()
	stale := !sess.accept(ev.Stream, ev.Seq)
	if !stale {
		applyEvent(sess.card, &sess.clicks, ev)
	}
	selections := sess.takeSelections()
	snap := sess.card.Snapshot()
	pose := sess.card.Pose()
	resp := cardResponse{
		State:      snap,
		Pose:       pose,
		Transform:  pose.Matrix3D(),
		Reflection: card.Reflection(snap.Rotation),
		View:       sess.router.Current().String(),
		Blurred:    sess.blurred,
		Seq:        ev.Seq,
		Stale:      stale,
	}
	if key, ok := sess.router.Selected(); ok {
		resp.Selected = key
	}
	sess.mu.Unlock()

	for _, key := range selections {
		s.recordSelection(c, key, "card")
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleToggleMode(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	sess.router.TogglePortfolioMode()
	data := s.pageFor(sess)
	sess.mu.Unlock()
	c.HTML(http.StatusOK, "fragment.html", data)
}

func (s *Server) handleSelectSection(c *gin.Context) {
	key := c.Param("key")
	sess := sessionFrom(c)
	sess.mu.Lock()
	sess.router.Select(key)
	data := s.pageFor(sess)
	sess.mu.Unlock()

	s.recordSelection(c, key, "menu")
	c.HTML(http.StatusOK, "fragment.html", data)
}

func (s *Server) handleBack(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	sess.router.Back()
	data := s.pageFor(sess)
	sess.mu.Unlock()
	c.HTML(http.StatusOK, "fragment.html", data)
}

// handleSection renders a section directly. Unknown keys render the
// fallback page with 200 so the swap still happens.
func (s *Server) handleSection(c *gin.Context) {
	c.HTML(http.StatusOK, "section-page.html", pageData{
		Profile: s.profile,
		View:    view.ViewSection.String(),
		Section: s.registry.Render(c.Param("key")),
	})
}

func (s *Server) handleSectionJSON(c *gin.Context) {
	entry, err := s.registry.Get(c.Param("key"))
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "title": content.FallbackTitle})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) recordSelection(c *gin.Context, key, source string) {
	if s.visits == nil {
		return
	}
	if err := s.visits.RecordSelection(c.Request.Context(), key, source, s.hasher.Hash(c.ClientIP())); err != nil {
		s.logger.Error("record selection", "key", key, "error", err)
	}
}
