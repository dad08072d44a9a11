package media

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("file is not an image or video")
	ErrCountLimitExceeded   = errors.New("media count limit exceeded")
	ErrSizeLimitExceeded    = errors.New("media size limit exceeded")
	ErrReadFailure          = errors.New("failed to read media file")
	ErrDecodeFailure        = errors.New("failed to decode image")
	ErrEncodeFailure        = errors.New("failed to encode image")
	ErrInvalidURL           = errors.New("invalid media URL")
	ErrDuplicateURL         = errors.New("media URL already added")
	ErrSessionClosed        = errors.New("crop session is no longer editable")
)
