// Package content holds the portfolio sections and the header profile.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var defaultSections string

// ErrNotFound is returned by Get for keys the registry does not hold.
var ErrNotFound = errors.New("section not found")

// FallbackTitle is the title of the page rendered for unknown keys.
const FallbackTitle = "Sección no encontrada"

// MenuOrder is the order sections are listed in the portfolio menu.
var MenuOrder = []string{"cv", "Música", "Desarrollo", "Diseño Web", "Creativos"}

// MediaKind tags a media item.
type MediaKind string

const (
	MediaVideo    MediaKind = "video"
	MediaImage    MediaKind = "image"
	MediaCode     MediaKind = "code"
	MediaDocument MediaKind = "document"
)

func (k MediaKind) valid() bool {
	switch k {
	case MediaVideo, MediaImage, MediaCode, MediaDocument:
		return true
	}
	return false
}

// Media is one item shown in a section.
type Media struct {
	Kind MediaKind `yaml:"type" json:"type"`
	URL  string    `yaml:"url" json:"url"`
}

// Entry is one portfolio section.
type Entry struct {
	Key         string  `yaml:"key" json:"key"`
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	Media       []Media `yaml:"media" json:"media"`
}

type document struct {
	Sections []Entry `yaml:"sections"`
}

// Registry is an immutable key to section lookup table.
type Registry struct {
	entries map[string]Entry
	keys    []string
}

// Load parses a YAML sections document.
func Load(r io.Reader) (*Registry, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	reg := &Registry{entries: make(map[string]Entry, len(doc.Sections))}
	for i, entry := range doc.Sections {
		key := normalize(entry.Key)
		if key == "" {
			return nil, fmt.Errorf("section %d: key is required", i)
		}
		if _, dup := reg.entries[key]; dup {
			return nil, fmt.Errorf("section %q: duplicate key", entry.Key)
		}
		for j, m := range entry.Media {
			if !m.Kind.valid() {
				return nil, fmt.Errorf("section %q media %d: unknown type %q", entry.Key, j, m.Kind)
			}
		}
		entry.Key = key
		entry.Title = strings.TrimSpace(entry.Title)
		if entry.Title == "" {
			entry.Title = key
		}
		entry.Description = strings.TrimSpace(entry.Description)
		reg.entries[key] = entry
		reg.keys = append(reg.keys, key)
	}
	return reg, nil
}

// Default returns the registry built from the embedded sections.
func Default() *Registry {
	reg, err := Load(strings.NewReader(defaultSections))
	if err != nil {
		panic(fmt.Sprintf("content: embedded sections: %v", err))
	}
	return reg
}

// Lookup returns the entry for key. Keys are compared in NFC form so a
// decomposed "Música" from a URL still matches.
func (r *Registry) Lookup(key string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	entry, ok := r.entries[normalize(key)]
	if !ok {
		return Entry{}, false
	}
	entry.Media = append([]Media(nil), entry.Media...)
	return entry, true
}

// Get is Lookup with an error for callers that propagate misses.
func (r *Registry) Get(key string) (Entry, error) {
	entry, ok := r.Lookup(key)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return entry, nil
}

// Keys lists the registered keys in file order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// MenuItem is one line of the portfolio menu.
type MenuItem struct {
	Key   string
	Title string
}

// Menu lists the sections in MenuOrder, skipping keys that are not
// registered.
func (r *Registry) Menu() []MenuItem {
	var items []MenuItem
	for _, key := range MenuOrder {
		if entry, ok := r.Lookup(key); ok {
			items = append(items, MenuItem{Key: entry.Key, Title: entry.Title})
		}
	}
	return items
}

func normalize(key string) string {
	return norm.NFC.String(strings.TrimSpace(key))
}
