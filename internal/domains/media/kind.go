package media

import (
	"net/url"
	"strings"
)

// Kind phân loại media: ảnh hoặc video
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// videoExtensions - các extension được coi là video file
var videoExtensions = []string{".mp4", ".webm", ".mov", ".avi", ".mkv", ".m4v", ".ogv"}

// videoHosts - các hosting domain được coi là video
var videoHosts = []string{"youtube.com", "youtu.be", "vimeo.com"}

// ClassifyURL decides whether a URL refers to a video or an image.
// Decision order (first match wins):
//  1. data-URI with a video MIME type
//  2. URL contains a known video-hosting domain
//  3. URL contains a known video file extension
//  4. everything else is an image
//
// Malformed input never panics - it falls through to image.
func ClassifyURL(raw string) Kind {
	if raw == "" {
		return KindImage
	}

	if strings.HasPrefix(raw, "data:video/") {
		return KindVideo
	}

	lower := strings.ToLower(raw)
	for _, host := range videoHosts {
		if strings.Contains(lower, host) {
			return KindVideo
		}
	}
	for _, ext := range videoExtensions {
		if strings.Contains(lower, ext) {
			return KindVideo
		}
	}

	return KindImage
}

// EmbedURL maps a watch/share URL of a recognized video host to a
// player-embeddable URL. Returns ("", false) when the host is unknown
// or the video id cannot be extracted. Never raises on parse failure.
func EmbedURL(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "", false
	}

	host := parsed.Hostname()

	// youtube.com: id in ?v= query parameter
	if strings.Contains(host, "youtube.com") {
		id := parsed.Query().Get("v")
		if id == "" {
			return "", false
		}
		return "https://www.youtube.com/embed/" + id, true
	}

	// youtu.be: id is the path
	if host == "youtu.be" {
		id := strings.TrimPrefix(parsed.Path, "/")
		if id == "" {
			return "", false
		}
		return "https://www.youtube.com/embed/" + id, true
	}

	// vimeo.com: id is the last path segment
	if strings.Contains(host, "vimeo.com") {
		segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
		if len(segments) == 0 {
			return "", false
		}
		id := segments[len(segments)-1]
		if id == "" {
			return "", false
		}
		return "https://player.vimeo.com/video/" + id, true
	}

	return "", false
}
