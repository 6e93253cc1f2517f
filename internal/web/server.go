// Package web serves the saved-posts page: a read-and-delete view over the
// persisted collection for the extension's "view saved" surface.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hawky-ai/hawkd/internal/feed"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the saved-posts page.
type Server struct {
	store    *feed.Store
	renderer *Renderer
	log      zerolog.Logger
}

// NewServer creates the saved-posts web server over the given store.
func NewServer(store *feed.Store, version string, log zerolog.Logger) *Server {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// Embedded FS layout is fixed at build time; this cannot happen for
		// a correctly built binary.
		panic(err)
	}

	return &Server{
		store:    store,
		renderer: NewRenderer(templateSub, version),
		log:      log.With().Str("component", "web").Logger(),
	}
}

// Register mounts the page routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts", http.StatusFound)
	})
	mux.HandleFunc("GET /posts", s.handlePosts)
	mux.HandleFunc("DELETE /posts/{id}", s.handleDelete)
}

// SecurityHeaders adds security-related HTTP headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// handlePosts handles GET /posts: the saved collection, newest first.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	items := s.store.List(feed.Saved)

	s.renderer.renderPage(w, "posts", PostsPageData{
		PageData: PageData{Title: "Saved posts", Version: s.renderer.version},
		Items:    items,
		Count:    len(items),
	})
}

// handleDelete handles DELETE /posts/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.DeleteByID(id) {
		renderJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": "saved post not found: " + id})
		return
	}

	s.log.Info().Str("id", id).Msg("saved post deleted")
	renderJSON(w, http.StatusOK, map[string]any{"status": "success"})
}
