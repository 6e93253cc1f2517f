// Package screenshot holds the boundary to the browser-side capture tooling
// and the pieces of it the host owns: the capture/download cooldown and
// writing captured images to disk.
package screenshot

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Rect is a crop rectangle in page coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Capturer captures the currently visible page as an image data URL.
// Implemented by the browser side; the host only consumes it.
type Capturer interface {
	Capture() (string, error)
}

// Cropper crops a captured image to a rectangle, returning a new data URL.
// Implemented by the browser side.
type Cropper interface {
	Crop(imageData string, area Rect) (string, error)
}

// Cooldown gates rapid repeated captures and downloads.
type Cooldown struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
	now      func() time.Time
}

// NewCooldown creates a Cooldown with the given minimum interval.
func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{interval: interval, now: time.Now}
}

// Try reports whether an action is allowed now, and if so records it.
func (c *Cooldown) Try() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}

// Downloader writes data-URL screenshots into a directory.
type Downloader struct {
	dir      string
	cooldown *Cooldown
	log      zerolog.Logger
}

// NewDownloader creates a Downloader writing into dir, gated by cooldown.
func NewDownloader(dir string, cooldown *Cooldown, log zerolog.Logger) *Downloader {
	return &Downloader{
		dir:      dir,
		cooldown: cooldown,
		log:      log.With().Str("component", "screenshot").Logger(),
	}
}

// OnCooldown reports whether a download would currently be rejected, and
// claims the slot when it would not.
func (d *Downloader) OnCooldown() bool {
	return !d.cooldown.Try()
}

// Save decodes an image data URL and writes it to disk, returning the file
// path. The caller is expected to have cleared the cooldown first.
func (d *Downloader) Save(dataURL string) (string, error) {
	data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	name := fmt.Sprintf("screenshot-%d.png", time.Now().UnixMilli())
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	d.log.Info().Str("path", path).Int("bytes", len(data)).Msg("screenshot saved")
	return path, nil
}

// DecodeDataURL extracts the raw bytes from a base64 image data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if dataURL == "" {
		return nil, fmt.Errorf("no image data received")
	}

	payload := dataURL
	if idx := strings.Index(dataURL, ","); idx >= 0 {
		header := dataURL[:idx]
		if !strings.HasPrefix(header, "data:image/") {
			return nil, fmt.Errorf("not an image data URL")
		}
		payload = dataURL[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid image data: %w", err)
	}
	return data, nil
}
