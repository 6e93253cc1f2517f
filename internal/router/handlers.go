package router

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hawky-ai/hawkd/internal/errors"
	"github.com/hawky-ai/hawkd/internal/feed"
	"github.com/hawky-ai/hawkd/internal/item"
	"github.com/hawky-ai/hawkd/internal/platform"
	"github.com/hawky-ai/hawkd/internal/screenshot"
)

// handleAddToFeed normalizes the payload and inserts it into the transient or
// saved collection, depending on the isSaved flag.
func (rt *Router) handleAddToFeed(ctx context.Context, req *Request) any {
	var payload map[string]any
	if err := json.Unmarshal(req.Raw, &payload); err != nil {
		return errorResponse(errors.NewInvalidRequest("malformed payload: " + err.Error()))
	}

	target := feed.Transient
	if saved, _ := payload["isSaved"].(bool); saved {
		target = feed.Saved
	}

	rt.deps.Store.Insert(item.Normalize(payload), target)

	return statusResponse{Status: "success", Message: "Post added to feed successfully"}
}

// handleGetFeedItems returns a snapshot of the transient feed, or the saved
// collection when getSaved is set. List responses are bare ordered sequences.
func (rt *Router) handleGetFeedItems(ctx context.Context, req *Request) any {
	input, err := decode[struct {
		GetSaved bool `json:"getSaved"`
	}](req)
	if err != nil {
		return errorResponse(errors.NewInvalidRequest(err.Error()))
	}

	if input.GetSaved {
		return rt.deps.Store.List(feed.Saved)
	}
	return rt.deps.Store.List(feed.Transient)
}

// handleGetSavedPosts returns a snapshot of the saved collection.
func (rt *Router) handleGetSavedPosts(ctx context.Context, req *Request) any {
	return rt.deps.Store.List(feed.Saved)
}

// handleDeleteSavedPost removes one saved post by id.
func (rt *Router) handleDeleteSavedPost(ctx context.Context, req *Request) any {
	input, err := decode[struct {
		PostID string `json:"postId"`
	}](req)
	if err != nil {
		return errorResponse(errors.NewInvalidRequest(err.Error()))
	}
	if input.PostID == "" {
		return errorResponse(errors.NewInvalidRequest("postId is required"))
	}

	if !rt.deps.Store.DeleteByID(input.PostID) {
		return errorResponse(errors.NewNotFound(input.PostID))
	}
	return statusResponse{Status: "success"}
}

// handleGetLoginStatus reads the process-wide auth state.
func (rt *Router) handleGetLoginStatus(ctx context.Context, req *Request) any {
	if rt.deps.Ideas == nil {
		return loginResponse{}
	}
	loggedIn, details := rt.deps.Ideas.LoginStatus()
	return loginResponse{IsLoggedIn: loggedIn, UserDetails: details}
}

// handleGetIdeas returns the cached external idea records.
func (rt *Router) handleGetIdeas(ctx context.Context, req *Request) any {
	if rt.deps.Ideas == nil {
		return []map[string]any{}
	}
	return rt.deps.Ideas.Cached()
}

// handleSaveCreative dispatches an ad creative to its platform processor.
// Processing is bounded by the configured ceiling: past the deadline the
// caller gets a timeout error, but the processor keeps running and its late
// inserts still land in the store.
func (rt *Router) handleSaveCreative(ctx context.Context, req *Request) any {
	input, err := decode[struct {
		Platform     string             `json:"platform"`
		CreativeData *platform.Creative `json:"creativeData"`
	}](req)
	if err != nil {
		return errorResponse(errors.NewInvalidRequest(err.Error()))
	}
	if input.Platform == "" || input.CreativeData == nil {
		return errorResponse(errors.NewInvalidRequest("Missing required data"))
	}

	done := make(chan platform.Result, 1)
	go func() {
		done <- rt.deps.Processor.Process(input.Platform, input.CreativeData, req.SenderHost, rt.addCapture)
	}()

	timer := time.NewTimer(rt.timeout)
	defer timer.Stop()

	select {
	case result := <-done:
		return statusResponse{Status: result.Status, Message: result.Message}
	case <-timer.C:
		rt.log.Warn().Str("platform", input.Platform).Msg("creative processing timed out")
		return errorResponse(errors.NewTimeout(input.Platform))
	case <-ctx.Done():
		return errorResponse(errors.NewInternal(ctx.Err()))
	}
}

// addCapture is the AddFunc handed to platform processors: every expanded
// creative item lands in the transient feed.
func (rt *Router) addCapture(raw map[string]any) error {
	rt.deps.Store.Insert(item.Normalize(raw), feed.Transient)
	return nil
}

// handleCaptureFullPage captures the visible page via the browser-side
// collaborator.
func (rt *Router) handleCaptureFullPage(ctx context.Context, req *Request) any {
	if rt.deps.Capturer == nil {
		return errorResponse(errors.NewInvalidRequest("screenshot capture unavailable"))
	}

	image, err := rt.deps.Capturer.Capture()
	if err != nil {
		return errorResponse(errors.NewInternal(err))
	}
	return imageResponse{Status: "success", Image: image}
}

// handleCaptureBackground is captureFullPage behind the capture cooldown.
func (rt *Router) handleCaptureBackground(ctx context.Context, req *Request) any {
	if rt.deps.Capturer == nil {
		return errorResponse(errors.NewInvalidRequest("screenshot capture unavailable"))
	}
	if rt.deps.CaptureCooldown != nil && !rt.deps.CaptureCooldown.Try() {
		return errorResponse(errors.NewInvalidRequest("Please wait before capturing again"))
	}

	image, err := rt.deps.Capturer.Capture()
	if err != nil {
		return errorResponse(errors.NewInternal(err))
	}
	return imageResponse{Status: "success", Image: image}
}

// handleCaptureArea crops a captured image to the requested area and inserts
// the result into the transient feed.
func (rt *Router) handleCaptureArea(ctx context.Context, req *Request) any {
	if rt.deps.Cropper == nil {
		return errorResponse(errors.NewInvalidRequest("screenshot cropping unavailable"))
	}

	input, err := decode[struct {
		Image      string          `json:"image"`
		Area       screenshot.Rect `json:"area"`
		DomainName string          `json:"domainName"`
		Time       string          `json:"time"`
	}](req)
	if err != nil {
		return errorResponse(errors.NewInvalidRequest(err.Error()))
	}
	if input.Image == "" {
		return errorResponse(errors.NewInvalidRequest("image is required"))
	}

	cropped, err := rt.deps.Cropper.Crop(input.Image, input.Area)
	if err != nil {
		return errorResponse(errors.NewInternal(err))
	}

	rt.deps.Store.Insert(item.Normalize(map[string]any{
		"imageDataUrl": cropped,
		"domainName":   input.DomainName,
		"time":         input.Time,
	}), feed.Transient)

	return imageResponse{Status: "success", Message: "Area captured successfully", Image: cropped}
}

// handleDownloadScreenshot writes a captured image to disk, gated by the
// download cooldown.
func (rt *Router) handleDownloadScreenshot(ctx context.Context, req *Request) any {
	if rt.deps.Downloader == nil {
		return errorResponse(errors.NewInvalidRequest("screenshot download unavailable"))
	}
	if rt.deps.Downloader.OnCooldown() {
		return statusResponse{Status: "cooldown"}
	}

	input, err := decode[struct {
		ImageBlob string `json:"imageBlob"`
	}](req)
	if err != nil {
		return errorResponse(errors.NewInvalidRequest(err.Error()))
	}
	if input.ImageBlob == "" {
		return errorResponse(errors.NewInvalidRequest("No image data received"))
	}

	path, err := rt.deps.Downloader.Save(input.ImageBlob)
	if err != nil {
		return errorResponse(errors.NewInternal(err))
	}

	return struct {
		Status string `json:"status"`
		Path   string `json:"path"`
	}{Status: "success", Path: path}
}

// handleOpenSavedPosts points the caller at the saved-posts page.
func (rt *Router) handleOpenSavedPosts(ctx context.Context, req *Request) any {
	return struct {
		Status string `json:"status"`
		URL    string `json:"url"`
	}{Status: "success", URL: rt.deps.SavedPostsURL}
}
