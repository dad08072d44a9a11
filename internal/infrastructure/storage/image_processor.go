package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// variantSpec định nghĩa một display variant của product image
type variantSpec struct {
	Name    string
	MaxEdge int
}

// Variants được sinh ra cho mỗi original image sau khi product được tạo.
// Thumbnail dùng cho listing grid, medium cho detail page, large cho zoom/lightbox.
var productVariants = []variantSpec{
	{Name: "large", MaxEdge: 1200},
	{Name: "medium", MaxEdge: 600},
	{Name: "thumbnail", MaxEdge: 300},
}

type ImageProcessor struct {
	MaxSize int64 // bytes
	Quality int   // JPEG encode quality cho variants
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxSize: 1 * 1024 * 1024, // match upload limit cho product images
		Quality: 90,
	}
}

// ValidateImage check decode được và file không vượt max size
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png", "gif", "webp":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed", format)
	}
}

// ProcessImage trả về map[variant][]byte: fit vào bounding box → encode JPEG
// Ảnh nhỏ hơn bounding box giữ nguyên kích thước (imaging.Fit không upscale)
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(productVariants))
	for _, v := range productVariants {
		resized := imaging.Fit(img, v.MaxEdge, v.MaxEdge, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: p.Quality}); err != nil {
			return nil, fmt.Errorf("cannot encode %s variant: %w", v.Name, err)
		}
		variants[v.Name] = b.Bytes()
	}
	return variants, nil
}
