package content

import "slices"

// Profile is the header shown above every view.
type Profile struct {
	Name     string
	Headline string
	Style    string
	Links    SocialLinks
}

// SocialLinks are the header icons.
type SocialLinks struct {
	LinkedIn string
	GitHub   string
	GitLab   string
	Mail     string
}

var darkStyles = []string{"cyberpunk", "oscuro-premium"}

// DefaultProfile is used when nothing is configured.
var DefaultProfile = Profile{
	Name:     "Laureano Diez",
	Headline: "Portfolio",
	Links: SocialLinks{
		GitHub: "https://github.com/laureanodiez",
	},
}

// Dark reports whether the card style needs light text.
func (p Profile) Dark() bool {
	return slices.Contains(darkStyles, p.Style)
}

// TextColor is the header text colour for the style.
func (p Profile) TextColor() string {
	if p.Dark() {
		return "#fff"
	}
	return "#000"
}
