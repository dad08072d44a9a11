package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImageURI renders a solid-fill JPEG of the given size as a data URI.
func testImageURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return EncodeDataURL("image/jpeg", buf.Bytes())
}

func testPNGURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return EncodeDataURL("image/png", buf.Bytes())
}

func TestNewSessionFitsDisplayAndCentersCrop(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	assert.Equal(t, StateEditing, s.State())
	assert.Equal(t, Size{Width: 400, Height: 400}, s.Display())
	assert.Equal(t, Rect{X: 100, Y: 100, Width: 200, Height: 200}, s.Crop())
	assert.Equal(t, 1.0, s.Zoom())
	assert.Equal(t, 0, s.Rotation())

	w, h := s.NativeSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 800, h)
}

func TestNewSessionWideImageShrinksDefaultCrop(t *testing.T) {
	// 3:1 image letterboxes to 600x200; 80% of 200 caps the box below 200.
	s, err := NewSession(testImageURI(t, 1200, 400))
	require.NoError(t, err)

	assert.Equal(t, Size{Width: 600, Height: 200}, s.Display())
	assert.Equal(t, Rect{X: 220, Y: 20, Width: 160, Height: 160}, s.Crop())
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	_, err := NewSession("https://cdn.example.com/a.jpg")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = NewSession(EncodeDataURL("image/jpeg", []byte("not an image")))
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestMoveByClampsToDisplay(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	s.MoveBy(-1000, -1000)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 200, Height: 200}, s.Crop())

	s.MoveBy(1000, 1000)
	assert.Equal(t, Rect{X: 200, Y: 200, Width: 200, Height: 200}, s.Crop())
}

func TestResizeKeepsOppositeCornerFixed(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	// Crop starts at (100,100) 200x200. Dragging SE by +50 grows the box,
	// the NW corner stays put.
	s.Resize(CornerSE, 50, 50)
	assert.Equal(t, Rect{X: 100, Y: 100, Width: 250, Height: 250}, s.Crop())

	// Dragging NW inward by +100 shrinks the box, the SE corner stays
	// anchored at (350,350).
	s.Resize(CornerNW, 100, 100)
	assert.Equal(t, Rect{X: 200, Y: 200, Width: 150, Height: 150}, s.Crop())
}

func TestResizeFloorsAtMinCropSize(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	s.Resize(CornerSE, -1000, -1000)
	c := s.Crop()
	assert.Equal(t, MinCropSize, c.Width)
	assert.Equal(t, MinCropSize, c.Height)
	assert.Equal(t, 100.0, c.X)
	assert.Equal(t, 100.0, c.Y)
}

func TestSetZoomClampsAndStaysCosmetic(t *testing.T) {
	uri := testImageURI(t, 800, 800)

	s, err := NewSession(uri)
	require.NoError(t, err)
	s.SetZoom(10)
	assert.Equal(t, MaxZoom, s.Zoom())
	s.SetZoom(0.01)
	assert.Equal(t, MinZoom, s.Zoom())

	// Zoom never changes the raster: two sessions with different zoom but
	// identical geometry confirm to identical bytes.
	a, err := NewSession(uri)
	require.NoError(t, err)
	b, err := NewSession(uri)
	require.NoError(t, err)
	b.SetZoom(2.5)

	outA, err := a.Confirm()
	require.NoError(t, err)
	outB, err := b.Confirm()
	require.NoError(t, err)
	assert.Equal(t, outA, outB)
}

func TestRotationStepsAndWraps(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	s.RotateRight()
	assert.Equal(t, 90, s.Rotation())
	s.RotateRight()
	s.RotateRight()
	s.RotateRight()
	assert.Equal(t, 0, s.Rotation())

	s.RotateLeft()
	assert.Equal(t, -90, s.Rotation())
}

func TestSetCropReclamps(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	s.SetCrop(Rect{X: 390, Y: 390, Width: 10, Height: 10})
	assert.Equal(t, Rect{X: 350, Y: 350, Width: MinCropSize, Height: MinCropSize}, s.Crop())

	s.SetCrop(Rect{X: -50, Y: -50, Width: 1000, Height: 1000})
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 400, Height: 400}, s.Crop())
}

func TestConfirmCropsAtNativeScale(t *testing.T) {
	// 800x800 displays at 400x400, so display coordinates double in native
	// space: a 200x200 box yields a 400x400 raster.
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	out, err := s.Confirm()
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, s.State())

	parsed, err := ParseDataURL(out)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", parsed.MIME)

	img, err := jpeg.Decode(bytes.NewReader(parsed.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestConfirmWithRotationProducesRaster(t *testing.T) {
	s, err := NewSession(testPNGURI(t, 600, 400))
	require.NoError(t, err)
	s.RotateRight()

	out, err := s.Confirm()
	require.NoError(t, err)

	parsed, err := ParseDataURL(out)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(parsed.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestSessionClosesOnce(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	_, err = s.Confirm()
	require.NoError(t, err)

	_, err = s.Confirm()
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Cancel after confirm is a no-op.
	s.Cancel()
	assert.Equal(t, StateConfirmed, s.State())
}

func TestCancelDiscardsSession(t *testing.T) {
	s, err := NewSession(testImageURI(t, 800, 800))
	require.NoError(t, err)

	before := s.Crop()
	s.Cancel()
	assert.Equal(t, StateCancelled, s.State())

	// Mutations after cancel are ignored.
	s.MoveBy(10, 10)
	s.RotateRight()
	assert.Equal(t, before, s.Crop())
	assert.Equal(t, 0, s.Rotation())

	_, err = s.Confirm()
	assert.ErrorIs(t, err, ErrSessionClosed)
}
