// Package router is the single entry point for the extension message
// protocol. Every request carries a discriminating action field; every
// recognized action produces exactly one response, and unrecognized actions
// get an explicit error instead of leaving the caller hanging.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hawky-ai/hawkd/internal/config"
	"github.com/hawky-ai/hawkd/internal/errors"
	"github.com/hawky-ai/hawkd/internal/feed"
	"github.com/hawky-ai/hawkd/internal/ideas"
	"github.com/hawky-ai/hawkd/internal/platform"
	"github.com/hawky-ai/hawkd/internal/screenshot"
)

// Request is one protocol message. Raw holds the full payload so handlers
// can decode their own action-specific fields.
type Request struct {
	Action string
	Raw    json.RawMessage

	// SenderHost is the host of the page the request came from, when the
	// transport knows it. The generic creative processor uses it as the
	// item's domain.
	SenderHost string
}

// CreativeProcessor expands an ad creative into feed captures.
type CreativeProcessor interface {
	Process(platform string, c *platform.Creative, senderHost string, add platform.AddFunc) platform.Result
}

// Deps are the collaborators the router dispatches to. Capturer, Cropper,
// Downloader, and Ideas may be nil; the corresponding actions then report
// errors (or empty results) instead of capturing.
type Deps struct {
	Store           *feed.Store
	Processor       CreativeProcessor
	Ideas           *ideas.Client
	Capturer        screenshot.Capturer
	Cropper         screenshot.Cropper
	Downloader      *screenshot.Downloader
	CaptureCooldown *screenshot.Cooldown
	SavedPostsURL   string
}

// Router dispatches typed requests to the feed store, platform processors,
// and screenshot collaborators.
type Router struct {
	deps    Deps
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a Router.
func New(deps Deps, cfg *config.Config, log zerolog.Logger) *Router {
	return &Router{
		deps:    deps,
		timeout: time.Duration(cfg.ProcessTimeoutSecs) * time.Second,
		log:     log.With().Str("component", "router").Logger(),
	}
}

// handlerFunc handles one action and returns its response value.
type handlerFunc func(rt *Router, ctx context.Context, req *Request) any

// actionRegistry maps actions to handlers.
var actionRegistry = map[string]handlerFunc{
	"addToFeed":          (*Router).handleAddToFeed,
	"getFeedItems":       (*Router).handleGetFeedItems,
	"getSavedPosts":      (*Router).handleGetSavedPosts,
	"deleteSavedPost":    (*Router).handleDeleteSavedPost,
	"getLoginStatus":     (*Router).handleGetLoginStatus,
	"getIdeas":           (*Router).handleGetIdeas,
	"saveCreative":       (*Router).handleSaveCreative,
	"captureFullPage":    (*Router).handleCaptureFullPage,
	"captureBackground":  (*Router).handleCaptureBackground,
	"captureArea":        (*Router).handleCaptureArea,
	"downloadScreenshot": (*Router).handleDownloadScreenshot,
	"openSavedPosts":     (*Router).handleOpenSavedPosts,
}

// Actions returns the recognized action names.
func Actions() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	return names
}

// Handle processes one raw protocol message and returns exactly one response:
// either an action-specific value or a status object. It never returns nil.
func (rt *Router) Handle(ctx context.Context, raw json.RawMessage, senderHost string) (resp any) {
	defer func() {
		if r := recover(); r != nil {
			rt.log.Error().Interface("panic", r).Msg("handler panicked")
			resp = errorResponse(errors.NewInternal(fmt.Errorf("handler panic: %v", r)))
		}
	}()

	var envelope struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errorResponse(errors.NewInvalidRequest("malformed request: " + err.Error()))
	}
	if envelope.Action == "" {
		return errorResponse(errors.NewInvalidRequest("action is required"))
	}

	handler, ok := actionRegistry[envelope.Action]
	if !ok {
		rt.log.Warn().Str("action", envelope.Action).Msg("unknown action")
		return errorResponse(errors.NewUnknownAction(envelope.Action))
	}

	req := &Request{Action: envelope.Action, Raw: raw, SenderHost: senderHost}
	rt.log.Debug().Str("action", req.Action).Msg("dispatching request")
	return handler(rt, ctx, req)
}

// decode unmarshals the request payload into a typed struct.
func decode[T any](req *Request) (T, error) {
	var result T
	if err := json.Unmarshal(req.Raw, &result); err != nil {
		return result, fmt.Errorf("decode %s request: %w", req.Action, err)
	}
	return result, nil
}

// statusResponse is the common {status, message} wire shape.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// imageResponse carries captured image data back to the caller.
type imageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Image   string `json:"image"`
}

// loginResponse reports the process-wide auth state.
type loginResponse struct {
	IsLoggedIn  bool           `json:"isLoggedIn"`
	UserDetails map[string]any `json:"userDetails"`
}

// errorResponse converts an error into the wire error shape. Cooldown errors
// keep their dedicated status so callers can distinguish rate limiting from
// failure.
func errorResponse(err error) statusResponse {
	status := "error"
	message := err.Error()
	if hErr, ok := err.(*errors.HawkError); ok {
		message = hErr.Message
		if hErr.Code == errors.ErrCooldown {
			status = "cooldown"
		}
	}
	return statusResponse{Status: status, Message: message}
}
