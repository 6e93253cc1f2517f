package item

// Item is the canonical record for a captured post, ad creative, or
// screenshot. Field names match the wire protocol (and the persisted layout),
// so JSON tags are the source of truth for naming.
type Item struct {
	ID      string `json:"id"`
	SavedAt string `json:"savedAt"`

	Author     string `json:"author,omitempty"`
	Date       string `json:"date,omitempty"`
	Caption    string `json:"caption,omitempty"`
	Content    string `json:"content,omitempty"`
	DomainName string `json:"domainName,omitempty"`
	Platform   string `json:"platform,omitempty"`

	// Visual payload: at most one of these is typically set, but text-only
	// captures are tolerated.
	ImageDataURL string   `json:"imageDataUrl,omitempty"`
	Images       []string `json:"images,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`

	// Source link; PostURL is preferred over DirectLink when both are set.
	PostURL    string `json:"postUrl,omitempty"`
	DirectLink string `json:"directLink,omitempty"`
	URL        string `json:"url,omitempty"`

	// Display counters are opaque strings; platforms report them
	// inconsistently ("1.2K" vs "1200") and we do not normalize them.
	Likes    string `json:"likes,omitempty"`
	Comments string `json:"comments,omitempty"`
	Shares   string `json:"shares,omitempty"`

	Time string `json:"time,omitempty"`
	AdID string `json:"adId,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Metadata preserves pre-rewrite values so the caption rewrite stays
// reversible for display purposes.
type Metadata struct {
	OriginalCaption string `json:"originalCaption"`
	OriginalLink    string `json:"originalLink"`
	CaptureTime     string `json:"captureTime"`
	Platform        string `json:"platform,omitempty"`
}

// Link returns the canonical source URL, preferring PostURL over DirectLink.
func (it *Item) Link() string {
	if it.PostURL != "" {
		return it.PostURL
	}
	return it.DirectLink
}
