package media

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSplitsImagesAndVideos(t *testing.T) {
	a := NewAcquirer(DefaultLimits())

	batch := a.Acquire([]File{
		{Name: "ring.jpg", MIME: "image/jpeg", Data: []byte("img")},
		{Name: "clip.mp4", MIME: "video/mp4", Data: []byte("vid")},
		{Name: "notes.pdf", MIME: "application/pdf", Data: []byte("doc")},
	}, nil)

	require.Len(t, batch.CropQueue, 1)
	assert.Equal(t, "ring.jpg", batch.CropQueue[0].Name)

	require.Len(t, batch.Videos, 1)
	assert.Equal(t, KindVideo, batch.Videos[0].Kind)
	assert.Equal(t, "clip.mp4", batch.Videos[0].DisplayName)
	assert.True(t, strings.HasPrefix(batch.Videos[0].URL, "data:video/mp4;base64,"))

	require.Len(t, batch.Rejected, 1)
	assert.Equal(t, "notes.pdf", batch.Rejected[0].Name)
	assert.ErrorIs(t, batch.Rejected[0].Err, ErrUnsupportedMediaType)
}

func TestAcquireCountCeilingsCountBatchAcceptances(t *testing.T) {
	a := NewAcquirer(Limits{MaxImages: 2, MaxVideos: 1, MaxImageBytes: 1 << 20, MaxVideoBytes: 50 << 20})

	// One image already on the product, three more in the batch.
	current := []Entry{NewEntry("https://cdn.example.com/a.jpg")}
	files := []File{
		{Name: "b.jpg", MIME: "image/jpeg", Data: []byte("x")},
		{Name: "c.jpg", MIME: "image/jpeg", Data: []byte("x")},
		{Name: "v1.mp4", MIME: "video/mp4", Data: []byte("x")},
		{Name: "v2.mp4", MIME: "video/mp4", Data: []byte("x")},
	}

	batch := a.Acquire(files, current)

	// b.jpg fills the second image slot, c.jpg is over the ceiling.
	require.Len(t, batch.CropQueue, 1)
	assert.Equal(t, "b.jpg", batch.CropQueue[0].Name)

	require.Len(t, batch.Videos, 1)
	assert.Equal(t, "v1.mp4", batch.Videos[0].DisplayName)

	require.Len(t, batch.Rejected, 2)
	assert.ErrorIs(t, batch.Rejected[0].Err, ErrCountLimitExceeded)
	assert.ErrorIs(t, batch.Rejected[1].Err, ErrCountLimitExceeded)
}

func TestAcquireSizeCeilings(t *testing.T) {
	a := NewAcquirer(Limits{MaxImages: 4, MaxVideos: 1, MaxImageBytes: 4, MaxVideoBytes: 8})

	batch := a.Acquire([]File{
		{Name: "small.jpg", MIME: "image/jpeg", Data: []byte("1234")},
		{Name: "big.jpg", MIME: "image/jpeg", Data: []byte("12345")},
		{Name: "big.mp4", MIME: "video/mp4", Data: bytes.Repeat([]byte("x"), 9)},
	}, nil)

	require.Len(t, batch.CropQueue, 1)
	assert.Equal(t, "small.jpg", batch.CropQueue[0].Name)

	require.Len(t, batch.Rejected, 2)
	assert.ErrorIs(t, batch.Rejected[0].Err, ErrSizeLimitExceeded)
	assert.ErrorIs(t, batch.Rejected[1].Err, ErrSizeLimitExceeded)
	assert.Empty(t, batch.Videos)
}

func TestAddURL(t *testing.T) {
	a := NewAcquirer(DefaultLimits())

	e, err := a.AddURL("  https://cdn.example.com/ring.jpg  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ring.jpg", e.URL)
	assert.Equal(t, KindImage, e.Kind)

	v, err := a.AddURL("https://youtu.be/abc123", nil)
	require.NoError(t, err)
	assert.Equal(t, KindVideo, v.Kind)
}

func TestAddURLRejections(t *testing.T) {
	a := NewAcquirer(Limits{MaxImages: 1, MaxVideos: 1, MaxImageBytes: 1 << 20, MaxVideoBytes: 50 << 20})
	current := []Entry{
		NewEntry("https://cdn.example.com/a.jpg"),
		NewEntry("https://youtu.be/abc123"),
	}

	_, err := a.AddURL("", current)
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = a.AddURL("relative/path.jpg", current)
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = a.AddURL("https://cdn.example.com/a.jpg", current)
	assert.ErrorIs(t, err, ErrDuplicateURL)

	_, err = a.AddURL("https://cdn.example.com/b.jpg", current)
	assert.ErrorIs(t, err, ErrCountLimitExceeded)

	_, err = a.AddURL("https://vimeo.com/12345678", current)
	assert.ErrorIs(t, err, ErrCountLimitExceeded)
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, 4, l.MaxImages)
	assert.Equal(t, 1, l.MaxVideos)
	assert.Equal(t, int64(1<<20), l.MaxImageBytes)
	assert.Equal(t, int64(50<<20), l.MaxVideoBytes)
}
