package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hawky-ai/hawkd/internal/errors"
	"github.com/hawky-ai/hawkd/internal/feed"
	"github.com/hawky-ai/hawkd/internal/ideas"
	"github.com/hawky-ai/hawkd/internal/item"
	"github.com/hawky-ai/hawkd/internal/platform"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *feed.Store
	proc  *platform.Dispatcher
	ideas *ideas.Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *feed.Store, proc *platform.Dispatcher, ideasClient *ideas.Client) *Handlers {
	return &Handlers{store: store, proc: proc, ideas: ideasClient}
}

// Request types for each tool

// ListRequest represents the arguments for feed_list.
type ListRequest struct {
	Saved bool `json:"saved,omitempty"`
	Limit int  `json:"limit,omitempty"`
}

// DeleteRequest represents the arguments for feed_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// CreativeSaveRequest represents the arguments for creative_save.
type CreativeSaveRequest struct {
	Platform   string   `json:"platform"`
	Advertiser string   `json:"advertiser,omitempty"`
	Campaign   string   `json:"campaign,omitempty"`
	AdCopy     string   `json:"adCopy,omitempty"`
	AdID       string   `json:"adId,omitempty"`
	VideoURL   string   `json:"videoUrl,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// Handler implementations

// HandleAdd handles the feed_add tool call. The arguments pass through the
// same normalization as extension captures, so the allowlist and caption
// rewrite apply here too.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}

	target := feed.Transient
	if saved, _ := args["saved"].(bool); saved {
		target = feed.Saved
	}
	delete(args, "saved")

	it := item.Normalize(args)
	h.store.Insert(it, target)

	return successResult(map[string]any{
		"id":      it.ID,
		"savedAt": it.SavedAt,
		"target":  string(target),
	})
}

// HandleList handles the feed_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	target := feed.Transient
	if input.Saved {
		target = feed.Saved
	}

	items := h.store.List(target)
	if input.Limit > 0 && len(items) > input.Limit {
		items = items[:input.Limit]
	}

	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleDelete handles the feed_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	if !h.store.DeleteByID(input.ID) {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}

	return successResult(map[string]any{"status": "success", "id": input.ID})
}

// HandleCreativeSave handles the creative_save tool call. Unlike the
// extension path there is no processing deadline here; MCP clients carry
// their own timeouts.
func (h *Handlers) HandleCreativeSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreativeSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Platform == "" {
		return errorResult(errors.NewInvalidRequest("Missing required data")), nil
	}

	creative := &platform.Creative{
		Advertiser: input.Advertiser,
		Campaign:   input.Campaign,
		AdCopy:     input.AdCopy,
		AdID:       input.AdID,
		VideoURL:   input.VideoURL,
		Timestamp:  input.Timestamp,
		Images:     input.Images,
		Platform:   input.Platform,
	}

	result := h.proc.Process(input.Platform, creative, "", func(raw map[string]any) error {
		h.store.Insert(item.Normalize(raw), feed.Transient)
		return nil
	})
	if result.Status == "error" {
		return errorResult(errors.NewInvalidRequest(result.Message)), nil
	}

	return successResult(result)
}

// HandleStatus handles the feed_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := map[string]any{
		"feedItems":  h.store.Len(feed.Transient),
		"savedPosts": h.store.Len(feed.Saved),
		"isLoggedIn": false,
	}
	if h.ideas != nil {
		loggedIn, details := h.ideas.LoginStatus()
		status["isLoggedIn"] = loggedIn
		if details != nil {
			status["userDetails"] = details
		}
	}
	return successResult(status)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if hErr, ok := err.(*errors.HawkError); ok {
		errorObj := map[string]any{
			"code":    hErr.Code,
			"message": hErr.Message,
			"status":  hErr.Status,
		}
		if hErr.Code != errors.ErrInternal && hErr.Details != nil {
			errorObj["details"] = hErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
