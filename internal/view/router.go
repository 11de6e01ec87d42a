// Package view decides which top-level view is on screen.
package view

// View is one of the mutually exclusive top-level views.
type View int

const (
	ViewCard View = iota
	ViewMenu
	ViewSection
)

func (v View) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSection:
		return "section"
	default:
		return "card"
	}
}

// Router holds the selected section and the portfolio (menu) mode flag.
// The zero value shows the card.
type Router struct {
	selected      string
	hasSelection  bool
	portfolioMode bool
}

// Current returns the view to render. A selection always wins over menu
// mode.
func (r *Router) Current() View {
	switch {
	case r.hasSelection:
		return ViewSection
	case r.portfolioMode:
		return ViewMenu
	default:
		return ViewCard
	}
}

// Select shows the section for key.
func (r *Router) Select(key string) {
	r.selected = key
	r.hasSelection = true
}

// Selected returns the selected key, if any.
func (r *Router) Selected() (string, bool) {
	return r.selected, r.hasSelection
}

// Back clears the selection and keeps the portfolio mode.
func (r *Router) Back() {
	r.selected = ""
	r.hasSelection = false
}

// PortfolioMode reports whether the menu replaces the card.
func (r *Router) PortfolioMode() bool { return r.portfolioMode }

// SetPortfolioMode switches between menu and card.
func (r *Router) SetPortfolioMode(on bool) { r.portfolioMode = on }

// TogglePortfolioMode flips the portfolio mode.
func (r *Router) TogglePortfolioMode() { r.portfolioMode = !r.portfolioMode }

// ToggleLabel is the text of the header mode button.
func (r *Router) ToggleLabel() string {
	if r.portfolioMode {
		return "Modo Menú"
	}
	return "Modo Tarjeta"
}
