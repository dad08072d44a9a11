package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURL là nội dung media được encode inline (base64) thay vì external URL.
type DataURL struct {
	MIME string
	Data []byte
}

// EncodeDataURL builds a base64 data URI for the given MIME type and bytes.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL reports whether s looks like a data URI.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL decodes a base64 data URI ("data:<mime>;base64,<payload>").
func ParseDataURL(s string) (*DataURL, error) {
	if !IsDataURL(s) {
		return nil, fmt.Errorf("%w: not a data URI", ErrInvalidURL)
	}

	rest := strings.TrimPrefix(s, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return nil, fmt.Errorf("%w: missing data separator", ErrInvalidURL)
	}

	meta := rest[:sep]
	payload := rest[sep+1:]

	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrInvalidURL)
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "text/plain"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	return &DataURL{MIME: mime, Data: data}, nil
}
