package content

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// Page is a section ready to render. Found is false for the fallback page.
type Page struct {
	Key         string
	Title       string
	Description template.HTML
	Media       []Media
	Found       bool
}

// Render builds the page for key. It never fails: unknown keys, and
// descriptions that cannot be converted, fall back to plain text.
func (r *Registry) Render(key string) Page {
	entry, ok := r.Lookup(key)
	if !ok {
		return Page{
			Key:         key,
			Title:       FallbackTitle,
			Description: template.HTML(template.HTMLEscapeString("No hay contenido para " + key + ".")),
		}
	}
	return Page{
		Key:         entry.Key,
		Title:       entry.Title,
		Description: renderMarkdown(entry.Description),
		Media:       entry.Media,
		Found:       true,
	}
}

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}
