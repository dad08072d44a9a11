package media

import (
	"strings"

	"github.com/google/uuid"
)

// Entry represents một đơn vị media của product (ảnh hoặc video).
// Identity chỉ tồn tại trong process, không được persist - chỉ URL là durable.
type Entry struct {
	Identity    uuid.UUID `json:"identity"`
	URL         string    `json:"url"`
	Kind        Kind      `json:"kind"`
	DisplayName string    `json:"display_name"`
}

// NewEntry builds an entry from a URL. Kind is always derived from the URL so
// the two can never disagree.
func NewEntry(rawURL string) Entry {
	kind := ClassifyURL(rawURL)
	return Entry{
		Identity:    uuid.New(),
		URL:         rawURL,
		Kind:        kind,
		DisplayName: displayName(rawURL, kind),
	}
}

// NewNamedEntry builds an entry carrying the original file name.
func NewNamedEntry(rawURL, name string) Entry {
	e := NewEntry(rawURL)
	if name != "" {
		e.DisplayName = name
	}
	return e
}

// displayName derives a label from the URL tail, falling back to a generic one.
func displayName(rawURL string, kind Kind) string {
	fallback := "Image"
	if kind == KindVideo {
		fallback = "Video"
	}
	if IsDataURL(rawURL) {
		return fallback
	}
	if idx := strings.LastIndex(rawURL, "/"); idx >= 0 && idx < len(rawURL)-1 {
		return rawURL[idx+1:]
	}
	return fallback
}

// CountByKind đếm số entry theo từng loại.
func CountByKind(entries []Entry) (images, videos int) {
	for _, e := range entries {
		if e.Kind == KindVideo {
			videos++
		} else {
			images++
		}
	}
	return images, videos
}

// URLs returns the ordered URL list of the entries.
func URLs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.URL)
	}
	return out
}
