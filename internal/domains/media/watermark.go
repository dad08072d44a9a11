package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultWatermarkText là brand text được in lên mọi ảnh product.
const DefaultWatermarkText = "theagatecity.com"

var (
	brandFontOnce sync.Once
	brandFont     *opentype.Font
	brandFontErr  error
)

func loadBrandFont() (*opentype.Font, error) {
	brandFontOnce.Do(func() {
		brandFont, brandFontErr = opentype.Parse(goregular.TTF)
	})
	return brandFont, brandFontErr
}

// Compositor overlays the branded label onto finished images. The label is a
// semi-transparent dark bar anchored bottom-right, holding an optional logo
// glyph plus the site text, sized proportionally to the image so the mark
// scales with resolution instead of being a fixed pixel size.
type Compositor struct {
	Text string
	logo image.Image
}

// NewCompositor builds a compositor. A missing or unreadable logo is
// non-fatal: the watermark falls back to text only.
func NewCompositor(text, logoPath string) *Compositor {
	c := &Compositor{Text: text}
	if c.Text == "" {
		c.Text = DefaultWatermarkText
	}

	if logoPath != "" {
		data, err := os.ReadFile(logoPath)
		if err == nil {
			logo, _, decodeErr := image.Decode(bytes.NewReader(data))
			if decodeErr == nil {
				c.logo = logo
			} else {
				err = decodeErr
			}
		}
		if c.logo == nil {
			log.Warn().Str("path", logoPath).Msg("Watermark logo not loadable, using text only")
		}
	}

	return c
}

// Apply draws the source image unchanged onto a same-size canvas, composites
// the watermark label, and re-encodes as JPEG. Deterministic for identical
// input bytes and logo asset.
func (c *Compositor) Apply(sourceURI string) (string, error) {
	parsed, err := ParseDataURL(sourceURI)
	if err != nil {
		return "", err
	}

	src, _, err := image.Decode(bytes.NewReader(parsed.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	canvas := imaging.Clone(src)
	imgW := float64(canvas.Bounds().Dx())
	imgH := float64(canvas.Bounds().Dy())

	// 8% of image height, min 30px
	barHeight := imgH * 0.08
	if barHeight < 30 {
		barHeight = 30
	}

	fnt, err := loadBrandFont()
	if err != nil {
		return "", fmt.Errorf("%w: brand font: %v", ErrEncodeFailure, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    barHeight * 0.6,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return "", fmt.Errorf("%w: font face: %v", ErrEncodeFailure, err)
	}
	defer face.Close()

	textWidth := float64(font.MeasureString(face, c.Text)) / 64

	logoWidth := 0.0
	gap := 0.0
	if c.logo != nil {
		lb := c.logo.Bounds()
		logoWidth = barHeight * float64(lb.Dx()) / float64(lb.Dy())
		gap = 8
	}

	// 2% padding, min 10px
	padding := imgW * 0.02
	if padding < 10 {
		padding = 10
	}
	const bgPad = 8.0

	totalWidth := logoWidth + gap + textWidth
	bgX := imgW - padding - totalWidth - bgPad*2
	bgY := imgH - padding - barHeight - bgPad
	bgW := totalWidth + bgPad*2
	bgH := barHeight + bgPad

	bgRect := image.Rect(int(bgX), int(bgY), int(bgX+bgW), int(bgY+bgH))
	draw.Draw(canvas, bgRect, image.NewUniform(color.NRGBA{A: 128}), image.Point{}, draw.Over)

	if c.logo != nil {
		scaled := imaging.Resize(c.logo, int(logoWidth+0.5), int(barHeight+0.5), imaging.Lanczos)
		at := image.Pt(int(bgX+bgPad), int(bgY+bgPad/2))
		draw.Draw(canvas, scaled.Bounds().Add(at), scaled, image.Point{}, draw.Over)
	}

	metrics := face.Metrics()
	centerY := bgY + bgH/2
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6((bgX + bgPad + logoWidth + gap) * 64),
			Y: fixed.Int26_6(centerY*64) + (metrics.Ascent-metrics.Descent)/2,
		},
	}
	drawer.DrawString(c.Text)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: cropJPEGQuality}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}

	return EncodeDataURL("image/jpeg", buf.Bytes()), nil
}
