package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Kind
	}{
		{"empty", "", KindImage},
		{"plain image url", "https://cdn.example.com/products/ring.jpg", KindImage},
		{"image data uri", "data:image/jpeg;base64,AAAA", KindImage},
		{"video data uri", "data:video/mp4;base64,AAAA", KindVideo},
		{"youtube watch", "https://www.youtube.com/watch?v=abc123", KindVideo},
		{"youtu.be short", "https://youtu.be/abc123", KindVideo},
		{"vimeo", "https://vimeo.com/12345678", KindVideo},
		{"mp4 extension", "https://cdn.example.com/clip.mp4", KindVideo},
		{"uppercase extension", "https://cdn.example.com/CLIP.MOV", KindVideo},
		{"webm extension", "https://cdn.example.com/clip.webm", KindVideo},
		{"malformed url", "ht!tp://%%%", KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyURL(tt.url))
		})
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/embed/abc123", true},
		{"youtube no id", "https://www.youtube.com/watch", "", false},
		{"youtu.be", "https://youtu.be/abc123", "https://www.youtube.com/embed/abc123", true},
		{"youtu.be empty path", "https://youtu.be/", "", false},
		{"vimeo", "https://vimeo.com/12345678", "https://player.vimeo.com/video/12345678", true},
		{"vimeo nested path", "https://vimeo.com/channels/staff/12345678", "https://player.vimeo.com/video/12345678", true},
		{"unknown host", "https://cdn.example.com/clip.mp4", "", false},
		{"garbage", "not a url at all", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EmbedURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntryKindAgreesWithClassification(t *testing.T) {
	for _, u := range []string{
		"https://cdn.example.com/ring.jpg",
		"https://youtu.be/abc123",
		"data:video/webm;base64,AAAA",
	} {
		e := NewEntry(u)
		assert.Equal(t, ClassifyURL(u), e.Kind)
	}
}

func TestEntryDisplayName(t *testing.T) {
	assert.Equal(t, "ring.jpg", NewEntry("https://cdn.example.com/products/ring.jpg").DisplayName)
	assert.Equal(t, "Image", NewEntry("data:image/jpeg;base64,AAAA").DisplayName)
	assert.Equal(t, "Video", NewEntry("data:video/mp4;base64,AAAA").DisplayName)
	assert.Equal(t, "ring-front.jpg", NewNamedEntry("data:image/jpeg;base64,AAAA", "ring-front.jpg").DisplayName)
}
