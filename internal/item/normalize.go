package item

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// linkMarker separates the capture's own caption text from the appended
// source link.
const linkMarker = "\n\nOriginal post: "

// Normalize converts an arbitrary partial capture payload into a canonical
// Item. Only allow-listed fields are projected; everything else a scraper
// happens to send is dropped. Missing identity and timestamps are synthesized.
//
// Normalize is pure apart from clock/entropy reads and never fails: malformed
// values are coerced to their zero defaults so it can run inline on every
// incoming message.
func Normalize(raw map[string]any) Item {
	now := time.Now().UTC()

	it := Item{
		ID:           stringField(raw, "id"),
		SavedAt:      stringField(raw, "savedAt"),
		Author:       stringField(raw, "author"),
		Date:         stringField(raw, "date"),
		Caption:      stringField(raw, "caption"),
		Content:      stringField(raw, "content"),
		DomainName:   stringField(raw, "domainName"),
		Platform:     stringField(raw, "platform"),
		ImageDataURL: stringField(raw, "imageDataUrl"),
		Images:       stringSliceField(raw, "images"),
		VideoURL:     stringField(raw, "videoUrl"),
		PostURL:      stringField(raw, "postUrl"),
		DirectLink:   stringField(raw, "directLink"),
		URL:          stringField(raw, "url"),
		Likes:        stringField(raw, "likes"),
		Comments:     stringField(raw, "comments"),
		Shares:       stringField(raw, "shares"),
		Time:         stringField(raw, "time"),
		AdID:         stringField(raw, "adId"),
	}

	if it.ID == "" {
		it.ID = newID(now)
	}
	if it.SavedAt == "" {
		it.SavedAt = now.Format(time.RFC3339)
	}

	link := it.Link()

	it.Metadata = mergeMetadata(raw["metadata"])
	it.Metadata.OriginalCaption = it.Caption
	it.Metadata.OriginalLink = link
	it.Metadata.CaptureTime = now.Format(time.RFC3339)

	// Append the source link to the caption, guarding against a payload that
	// was already rewritten once (re-capturing a stored item must not
	// double-append).
	if link != "" && !strings.Contains(it.Caption, linkMarker+link) {
		it.Caption = it.Caption + linkMarker + link
	}

	return it
}

// mergeMetadata carries forward metadata fields from the payload; the
// normalizer then overwrites the capture-owned fields.
func mergeMetadata(v any) Metadata {
	md := Metadata{}
	m, ok := v.(map[string]any)
	if !ok {
		return md
	}
	if s, ok := m["platform"].(string); ok {
		md.Platform = s
	}
	return md
}

// newID synthesizes an identity for payloads that arrive without one.
// ULIDs are a millisecond timestamp plus random entropy, which is exactly the
// identity scheme the capture sources expect.
func newID(now time.Time) string {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		// Entropy failure cannot make Normalize fail; degrade to a bare
		// timestamp identity.
		return strconv.FormatInt(now.UnixNano(), 10)
	}
	return id.String()
}

// stringField projects a single allow-listed key, coercing JSON numbers and
// dropping anything else.
func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// stringSliceField projects a list of strings, skipping empty and non-string
// elements.
func stringSliceField(raw map[string]any, key string) []string {
	var out []string
	switch list := raw[key].(type) {
	case []any:
		for _, v := range list {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
