package media

import (
	"fmt"
	"net/url"
	"strings"
)

// Limits - giới hạn số lượng và kích thước media cho một product
type Limits struct {
	MaxImages     int
	MaxVideos     int
	MaxImageBytes int64
	MaxVideoBytes int64
}

// DefaultLimits mirrors the admin upload policy: 4 images at 1MB each,
// 1 video at 50MB.
func DefaultLimits() Limits {
	return Limits{
		MaxImages:     4,
		MaxVideos:     1,
		MaxImageBytes: 1 * 1024 * 1024,
		MaxVideoBytes: 50 * 1024 * 1024,
	}
}

// File is one incoming media file (from multipart upload or paste).
type File struct {
	Name string
	MIME string
	Data []byte
}

// Rejection records why a file was not accepted. Rejections are surfaced to
// the user as warnings; they never abort the rest of the batch.
type Rejection struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// Reason returns the user-facing rejection message.
func (r Rejection) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Batch is the outcome of one acquisition call.
//
// Videos are complete entries ready to append. CropQueue holds validated
// image files that must pass through the crop/watermark pipeline before they
// become entries - the caller opens a crop session for the FIRST queued image
// only; the rest are returned so nothing is silently processed.
type Batch struct {
	Videos    []Entry
	CropQueue []File
	Rejected  []Rejection
}

// Acquirer validates and converts incoming files against the media limits.
type Acquirer struct {
	limits Limits
}

func NewAcquirer(limits Limits) *Acquirer {
	return &Acquirer{limits: limits}
}

// Limits returns the configured ceilings.
func (a *Acquirer) Limits() Limits {
	return a.limits
}

// Acquire validates files in order against the current entry list.
// Per-file checks: MIME category, per-kind count ceiling (counting entries
// already accepted earlier in this batch), per-kind size ceiling. Accepted
// videos are converted to data-URI entries; accepted images go to CropQueue.
// Input order is preserved within each output list.
func (a *Acquirer) Acquire(files []File, current []Entry) Batch {
	imageCount, videoCount := CountByKind(current)

	var batch Batch
	for _, f := range files {
		isVideo := strings.HasPrefix(f.MIME, "video/")
		isImage := strings.HasPrefix(f.MIME, "image/")

		if !isVideo && !isImage {
			batch.Rejected = append(batch.Rejected, Rejection{Name: f.Name, Err: fmt.Errorf("%w: %s", ErrUnsupportedMediaType, f.MIME)})
			continue
		}

		if isVideo && videoCount >= a.limits.MaxVideos {
			batch.Rejected = append(batch.Rejected, Rejection{Name: f.Name, Err: fmt.Errorf("%w: maximum %d video allowed", ErrCountLimitExceeded, a.limits.MaxVideos)})
			continue
		}
		if isImage && imageCount >= a.limits.MaxImages {
			batch.Rejected = append(batch.Rejected, Rejection{Name: f.Name, Err: fmt.Errorf("%w: maximum %d images allowed", ErrCountLimitExceeded, a.limits.MaxImages)})
			continue
		}

		maxSize := a.limits.MaxImageBytes
		if isVideo {
			maxSize = a.limits.MaxVideoBytes
		}
		if int64(len(f.Data)) > maxSize {
			batch.Rejected = append(batch.Rejected, Rejection{Name: f.Name, Err: fmt.Errorf("%w: %s exceeds %dMB limit", ErrSizeLimitExceeded, f.Name, maxSize/(1024*1024))})
			continue
		}

		if isImage {
			// Ảnh phải qua crop/watermark pipeline trước khi thành entry
			batch.CropQueue = append(batch.CropQueue, f)
			imageCount++
			continue
		}

		entry := NewNamedEntry(EncodeDataURL(f.MIME, f.Data), f.Name)
		batch.Videos = append(batch.Videos, entry)
		videoCount++
	}

	return batch
}

// AddURL validates an externally hosted media URL and converts it to an
// entry. URL-sourced images skip the crop step - the source pixels are not
// available for local processing.
func (a *Acquirer) AddURL(raw string, current []Entry) (Entry, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Entry{}, ErrInvalidURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	for _, e := range current {
		if e.URL == trimmed {
			return Entry{}, ErrDuplicateURL
		}
	}

	kind := ClassifyURL(trimmed)
	imageCount, videoCount := CountByKind(current)

	if kind == KindVideo && videoCount >= a.limits.MaxVideos {
		return Entry{}, fmt.Errorf("%w: maximum %d video allowed", ErrCountLimitExceeded, a.limits.MaxVideos)
	}
	if kind == KindImage && imageCount >= a.limits.MaxImages {
		return Entry{}, fmt.Errorf("%w: maximum %d images allowed", ErrCountLimitExceeded, a.limits.MaxImages)
	}

	return NewEntry(trimmed), nil
}
