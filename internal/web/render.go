package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hawky-ai/hawkd/internal/item"
)

// PageData contains common fields used across page templates.
type PageData struct {
	Title   string
	Version string
}

// PostsPageData is the template data for the saved-posts page.
type PostsPageData struct {
	PageData
	Items []item.Item
	Count int
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime":     formatTime,
		"renderCaption":  renderCaption,
		"displayCaption": displayCaption,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"posts": "posts.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	tmpl, ok := r.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderCaption converts caption text to HTML using goldmark.
func renderCaption(caption string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(caption), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(caption))
	}
	return template.HTML(buf.String())
}

// displayCaption prefers the pre-rewrite caption preserved in metadata, so
// the page shows the text as captured rather than with the appended link.
func displayCaption(it item.Item) string {
	if it.Metadata.OriginalCaption != "" {
		return it.Metadata.OriginalCaption
	}
	return it.Caption
}

// formatTime reformats an RFC-3339 timestamp as "2006-01-02 15:04" UTC,
// falling back to the raw value for anything unparseable.
func formatTime(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.UTC().Format("2006-01-02 15:04")
}
