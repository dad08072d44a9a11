package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Editing viewport and crop constraints. Crop coordinates always live in
// display space (the scaled image fitted to the viewport); only Confirm maps
// them back to native pixels.
const (
	ViewportWidth   = 600.0
	ViewportHeight  = 400.0
	MinCropSize     = 50.0
	MinZoom         = 0.5
	MaxZoom         = 3.0
	cropJPEGQuality = 92
)

// State của một crop session: Idle -> Editing -> Confirmed | Cancelled
type State int

const (
	StateIdle State = iota
	StateEditing
	StateConfirmed
	StateCancelled
)

// Size is a width/height pair in display-space units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is the user-selected crop rectangle in display-space coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Corner identifies a drag handle of the crop box.
type Corner string

const (
	CornerNW Corner = "nw"
	CornerNE Corner = "ne"
	CornerSW Corner = "sw"
	CornerSE Corner = "se"
)

// Session is the transient state of one interactive crop. It exists only
// between accepting an image file and Confirm/Cancel; nothing is persisted.
//
// Invariant: the crop rect is always fully contained in the displayed size
// and never smaller than MinCropSize on either axis.
type Session struct {
	source   string
	img      image.Image
	nativeW  int
	nativeH  int
	display  Size
	crop     Rect
	zoom     float64
	rotation int
	state    State
}

// NewSession decodes the source image, fits it to the editing viewport
// preserving aspect ratio, and centers a default crop box capped at 80% of
// the smaller displayed dimension.
func NewSession(sourceURI string) (*Session, error) {
	parsed, err := ParseDataURL(sourceURI)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(parsed.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	nativeW := img.Bounds().Dx()
	nativeH := img.Bounds().Dy()

	imgAspect := float64(nativeW) / float64(nativeH)
	containerAspect := ViewportWidth / ViewportHeight

	display := Size{Width: ViewportWidth, Height: ViewportHeight}
	if imgAspect > containerAspect {
		display.Height = ViewportWidth / imgAspect
	} else {
		display.Width = ViewportHeight * imgAspect
	}

	cropSize := 200.0
	if m := display.Width * 0.8; m < cropSize {
		cropSize = m
	}
	if m := display.Height * 0.8; m < cropSize {
		cropSize = m
	}

	return &Session{
		source:  sourceURI,
		img:     img,
		nativeW: nativeW,
		nativeH: nativeH,
		display: display,
		crop: Rect{
			X:      (display.Width - cropSize) / 2,
			Y:      (display.Height - cropSize) / 2,
			Width:  cropSize,
			Height: cropSize,
		},
		zoom:  1,
		state: StateEditing,
	}, nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Display() Size { return s.display }

func (s *Session) Crop() Rect { return s.crop }

func (s *Session) Zoom() float64 { return s.zoom }

func (s *Session) Rotation() int { return s.rotation }

func (s *Session) NativeSize() (w, h int) { return s.nativeW, s.nativeH }

// MoveBy translates the crop box by a pointer delta, clamped so the box
// stays inside the displayed image.
func (s *Session) MoveBy(dx, dy float64) {
	if s.state != StateEditing {
		return
	}
	s.crop.X = clamp(s.crop.X+dx, 0, s.display.Width-s.crop.Width)
	s.crop.Y = clamp(s.crop.Y+dy, 0, s.display.Height-s.crop.Height)
}

// Resize drags one corner of the crop box while the opposite corner stays
// fixed. The box never shrinks below MinCropSize and never leaves the
// displayed bounds.
func (s *Session) Resize(corner Corner, dx, dy float64) {
	if s.state != StateEditing {
		return
	}

	c := s.crop
	switch corner {
	case CornerSE:
		c.Width = clamp(s.crop.Width+dx, MinCropSize, s.display.Width-c.X)
		c.Height = clamp(s.crop.Height+dy, MinCropSize, s.display.Height-c.Y)
	case CornerSW:
		c.X = clamp(s.crop.X+dx, 0, s.crop.X+s.crop.Width-MinCropSize)
		c.Width = s.crop.X + s.crop.Width - c.X
		c.Height = clamp(s.crop.Height+dy, MinCropSize, s.display.Height-c.Y)
	case CornerNE:
		c.Y = clamp(s.crop.Y+dy, 0, s.crop.Y+s.crop.Height-MinCropSize)
		c.Width = clamp(s.crop.Width+dx, MinCropSize, s.display.Width-c.X)
		c.Height = s.crop.Y + s.crop.Height - c.Y
	case CornerNW:
		c.X = clamp(s.crop.X+dx, 0, s.crop.X+s.crop.Width-MinCropSize)
		c.Y = clamp(s.crop.Y+dy, 0, s.crop.Y+s.crop.Height-MinCropSize)
		c.Width = s.crop.X + s.crop.Width - c.X
		c.Height = s.crop.Y + s.crop.Height - c.Y
	default:
		return
	}
	s.crop = c
}

// SetZoom clamps the preview zoom factor. Zoom is cosmetic only - it scales
// the on-screen preview and is NOT baked into the final raster; rotation is
// the only transform that survives Confirm.
func (s *Session) SetZoom(z float64) {
	if s.state != StateEditing {
		return
	}
	s.zoom = clamp(z, MinZoom, MaxZoom)
}

// RotateLeft rotates the preview 90 degrees counter-clockwise.
func (s *Session) RotateLeft() {
	if s.state != StateEditing {
		return
	}
	s.rotation = (s.rotation - 90) % 360
}

// RotateRight rotates the preview 90 degrees clockwise.
func (s *Session) RotateRight() {
	if s.state != StateEditing {
		return
	}
	s.rotation = (s.rotation + 90) % 360
}

// SetCrop replaces the crop rect wholesale (used when the client tracks the
// drag itself), re-clamped to the session invariants.
func (s *Session) SetCrop(r Rect) {
	if s.state != StateEditing {
		return
	}
	r.Width = clamp(r.Width, MinCropSize, s.display.Width)
	r.Height = clamp(r.Height, MinCropSize, s.display.Height)
	r.X = clamp(r.X, 0, s.display.Width-r.Width)
	r.Y = clamp(r.Y, 0, s.display.Height-r.Height)
	s.crop = r
}

// Confirm maps the crop rect from display space into native pixel space,
// bakes in rotation, and rasterizes the result as a JPEG data URI.
//
// Rotation is applied the way the editing canvas does it: the source is
// drawn centered on a square working surface sized to max(width, height),
// rotated about the center, and the native-space rect is cut from that
// surface. With rotation 0 the source is cropped directly, so re-running the
// same geometry yields byte-identical output.
func (s *Session) Confirm() (string, error) {
	if s.state != StateEditing {
		return "", ErrSessionClosed
	}

	scaleX := float64(s.nativeW) / s.display.Width
	scaleY := float64(s.nativeH) / s.display.Height

	rect := image.Rect(
		int(s.crop.X*scaleX+0.5),
		int(s.crop.Y*scaleY+0.5),
		int((s.crop.X+s.crop.Width)*scaleX+0.5),
		int((s.crop.Y+s.crop.Height)*scaleY+0.5),
	)

	var cropped image.Image
	if s.rotation%360 != 0 {
		maxSize := s.nativeW
		if s.nativeH > maxSize {
			maxSize = s.nativeH
		}
		// imaging rotates counter-clockwise for positive angles; the canvas
		// convention is clockwise, hence the sign flip.
		rotated := imaging.Rotate(s.img, float64(-s.rotation), color.NRGBA{})
		work := imaging.PasteCenter(imaging.New(maxSize, maxSize, color.NRGBA{}), rotated)
		cropped = imaging.Crop(work, rect)
	} else {
		cropped = imaging.Crop(s.img, rect)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: cropJPEGQuality}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}

	s.state = StateConfirmed
	return EncodeDataURL("image/jpeg", buf.Bytes()), nil
}

// Cancel discards the session. No entry is created, no side effects remain.
func (s *Session) Cancel() {
	if s.state == StateEditing {
		s.state = StateCancelled
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
