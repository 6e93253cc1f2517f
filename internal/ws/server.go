// Package ws carries the extension message protocol over WebSocket and HTTP.
// Extension surfaces (content scripts, popup, pages) hold a WebSocket open
// and exchange seq-correlated frames; one-shot callers can POST instead.
package ws

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hawky-ai/hawkd/internal/router"
)

// frame is one request over the socket. Seq correlates the response when
// multiple requests are in flight.
type frame struct {
	Seq     int64           `json:"seq"`
	Request json.RawMessage `json:"request"`
}

// reply is the response to one frame.
type reply struct {
	Seq      int64 `json:"seq"`
	Response any   `json:"response"`
}

// Server exposes the router over the extension-facing transport.
type Server struct {
	router   *router.Router
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewServer creates a Server around the given router.
func NewServer(rt *router.Router, log zerolog.Logger) *Server {
	return &Server{
		router: rt,
		upgrader: websocket.Upgrader{
			// The listener binds to loopback; extension pages connect from
			// arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.With().Str("component", "ws").Logger(),
	}
}

// Register mounts the transport endpoints on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", s.handleSocket)
	mux.HandleFunc("POST /api/message", s.handleMessage)
}

// handleMessage serves one-shot request/response over plain HTTP.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	resp := s.router.Handle(r.Context(), raw, originHost(r))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}

// handleSocket runs the frame loop for one extension surface.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sender := originHost(r)
	s.log.Info().Str("origin", sender).Msg("surface connected")

	// gorilla/websocket allows one concurrent writer; handlers run in their
	// own goroutines (saveCreative can block up to its timeout) and share
	// the write lock.
	var writeMu sync.Mutex
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn().Err(err).Msg("surface disconnected")
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}

		wg.Add(1)
		go func(f frame) {
			defer wg.Done()

			resp := s.router.Handle(r.Context(), f.Request, sender)

			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(reply{Seq: f.Seq, Response: resp}); err != nil {
				s.log.Warn().Err(err).Int64("seq", f.Seq).Msg("failed to write reply")
			}
		}(f)
	}
}

// originHost extracts the host of the page the request came from.
func originHost(r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return ""
	}
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Host
}
