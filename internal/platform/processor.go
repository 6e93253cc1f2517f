// Package platform expands ad-platform creative payloads into individual
// feed captures. Each platform maps its own fields onto the canonical item
// shape; failures are isolated per item so one bad image never aborts the
// rest of the batch.
package platform

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Creative is the payload an ad-platform scraper ships for one creative.
type Creative struct {
	Advertiser string   `json:"advertiser,omitempty"`
	Campaign   string   `json:"campaign,omitempty"`
	AdCopy     string   `json:"adCopy,omitempty"`
	AdID       string   `json:"adId,omitempty"`
	Images     []string `json:"images,omitempty"`
	VideoURL   string   `json:"videoUrl,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Platform   string   `json:"platform,omitempty"`
}

// AddFunc inserts one raw capture payload into the feed. An error marks that
// single item as failed; the processor logs it and moves on.
type AddFunc func(raw map[string]any) error

// Result is the aggregate outcome for one creative.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// adPlatform describes how one platform's creative fields map onto captures.
type adPlatform struct {
	// display is the platform label stamped on each item.
	display string
	// domain is the fixed domainName, or empty to use the sender's host.
	domain string
	// label extracts the caption prefix (advertiser or campaign).
	label func(c *Creative) string
	// passAdID carries creative.adId onto each item (Meta Ads Library).
	passAdID bool
	// asContent emits the media URL in the content field instead of
	// imageDataUrl/videoUrl (the generic shape).
	asContent bool
}

var platforms = map[string]adPlatform{
	"linkedin": {
		display: "LinkedIn",
		domain:  "linkedin.com",
		label:   advertiserLabel,
	},
	"googleads": {
		display: "Google Ads",
		domain:  "ads.google.com",
		label:   campaignLabel,
	},
	"metalibrary": {
		display:  "Meta Ads Library",
		domain:   "facebook.com",
		label:    advertiserLabel,
		passAdID: true,
	},
}

func advertiserLabel(c *Creative) string {
	if c.Advertiser == "" {
		return "Unknown advertiser"
	}
	return c.Advertiser
}

func campaignLabel(c *Creative) string {
	if c.Campaign == "" {
		return "Unknown campaign"
	}
	return c.Campaign
}

// Dispatcher routes creatives to the right platform mapping, falling back to
// generic processing for platforms it has never heard of.
type Dispatcher struct {
	log zerolog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log.With().Str("component", "platform").Logger()}
}

// Process expands one creative into normalize+insert calls via add.
// senderHost is the page host the creative came from; it becomes the
// domainName for platforms without a fixed one.
func (d *Dispatcher) Process(platform string, c *Creative, senderHost string, add AddFunc) Result {
	if c == nil {
		return Result{Status: "error", Message: "Missing creative data"}
	}

	p, ok := platforms[platform]
	if !ok {
		p = genericPlatform(c, senderHost)
	}

	// Known platforms prefix the advertiser/campaign; the generic fallback
	// passes the ad copy through bare.
	caption := c.AdCopy
	if label := p.label(c); label != "" {
		if caption == "" {
			caption = "No ad copy"
		}
		caption = label + ": " + caption
	}

	captureTime := c.Timestamp
	if captureTime == "" {
		captureTime = time.Now().UTC().Format(time.RFC3339)
	}

	processed := 0
	for _, imageURL := range c.Images {
		payload := map[string]any{
			"domainName": p.domain,
			"caption":    caption,
			"time":       captureTime,
			"platform":   p.display,
		}
		if p.asContent {
			payload["content"] = imageURL
		} else {
			payload["imageDataUrl"] = imageURL
		}
		if p.passAdID {
			payload["adId"] = c.AdID
		}

		if err := add(payload); err != nil {
			d.log.Error().Err(err).Str("platform", p.display).Msg("failed to add image to feed")
			continue
		}
		processed++
	}

	if c.VideoURL != "" {
		payload := map[string]any{
			"domainName": p.domain,
			"caption":    caption,
			"time":       captureTime,
			"platform":   p.display,
		}
		if p.asContent {
			payload["content"] = c.VideoURL
		} else {
			payload["videoUrl"] = c.VideoURL
		}
		if p.passAdID {
			payload["adId"] = c.AdID
		}

		if err := add(payload); err != nil {
			d.log.Error().Err(err).Str("platform", p.display).Msg("failed to add video to feed")
		} else {
			processed++
		}
	}

	if processed > 0 {
		return Result{
			Status:  "success",
			Message: fmt.Sprintf("%s creative processed successfully (%d items)", p.display, processed),
		}
	}
	return Result{
		Status:  "warning",
		Message: fmt.Sprintf("No content items were processed from %s creative", p.display),
	}
}

// genericPlatform builds the fallback mapping for unrecognized platforms:
// domain from the sending page, media carried in the content field.
func genericPlatform(c *Creative, senderHost string) adPlatform {
	display := c.Platform
	if display == "" {
		display = "Unknown"
	}
	domain := senderHost
	if domain == "" {
		domain = "unknown"
	}
	return adPlatform{
		display:   display,
		domain:    domain,
		label:     func(*Creative) string { return "" },
		asContent: true,
	}
}
