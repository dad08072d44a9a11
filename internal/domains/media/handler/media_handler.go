package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"agatecity-backend/internal/domains/media"
	"agatecity-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler - HTTP surface của media pipeline (admin only, middleware check
// trước khi vào handler)
type Handler struct {
	acquirer   *media.Acquirer
	compositor *media.Compositor
}

// NewHandler - Constructor with DI
func NewHandler(acquirer *media.Acquirer, compositor *media.Compositor) *Handler {
	return &Handler{
		acquirer:   acquirer,
		compositor: compositor,
	}
}

// acquireResponse is the outcome of one upload batch. Images come back as
// data URIs so the client can open a crop session on them; videos are
// finished entries.
type acquireResponse struct {
	Videos   []media.Entry   `json:"videos"`
	ToCrop   []cropCandidate `json:"to_crop"`
	Rejected []rejectedFile  `json:"rejected"`
}

type cropCandidate struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type rejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// AcquireMedia - POST /v1/admin/media/acquire
// Multipart form: "files" (repeated) + optional "current" (JSON array of the
// URLs already on the product, dùng để enforce count ceiling).
func (h *Handler) AcquireMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	current := currentEntries(form.Value["current"])

	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, "No files provided", "form field 'files' is empty")
		return
	}

	limits := h.acquirer.Limits()
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to read upload", err.Error())
			return
		}
		// Read one byte past the largest ceiling so oversized files are
		// rejected by the size check instead of silently truncated.
		data, err := io.ReadAll(io.LimitReader(src, limits.MaxVideoBytes+1))
		src.Close()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to read upload", err.Error())
			return
		}
		files = append(files, media.File{
			Name: fh.Filename,
			MIME: fh.Header.Get("Content-Type"),
			Data: data,
		})
	}

	batch := h.acquirer.Acquire(files, current)

	out := acquireResponse{
		Videos:   batch.Videos,
		ToCrop:   make([]cropCandidate, 0, len(batch.CropQueue)),
		Rejected: make([]rejectedFile, 0, len(batch.Rejected)),
	}
	if out.Videos == nil {
		out.Videos = []media.Entry{}
	}
	for _, f := range batch.CropQueue {
		out.ToCrop = append(out.ToCrop, cropCandidate{
			Name:   f.Name,
			Source: media.EncodeDataURL(f.MIME, f.Data),
		})
	}
	for _, r := range batch.Rejected {
		log.Warn().Str("file", r.Name).Str("reason", r.Reason()).Msg("⚠️ Media file rejected")
		out.Rejected = append(out.Rejected, rejectedFile{Name: r.Name, Reason: r.Reason()})
	}

	response.Success(c, http.StatusOK, "Media batch processed", out)
}

type addURLRequest struct {
	URL     string   `json:"url"`
	Current []string `json:"current"`
}

type addURLResponse struct {
	Entry    media.Entry `json:"entry"`
	EmbedURL string      `json:"embed_url,omitempty"`
}

// AddMediaURL - POST /v1/admin/media/url
// Thêm external URL (image hoặc video hosting) làm entry, không qua crop.
func (h *Handler) AddMediaURL(c *gin.Context) {
	var req addURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	current := make([]media.Entry, 0, len(req.Current))
	for _, u := range media.Normalize(req.Current) {
		current = append(current, media.NewEntry(u))
	}

	entry, err := h.acquirer.AddURL(req.URL, current)
	if handleMediaError(c, err) {
		return
	}

	out := addURLResponse{Entry: entry}
	if entry.Kind == media.KindVideo {
		if embed, ok := media.EmbedURL(entry.URL); ok {
			out.EmbedURL = embed
		}
	}

	response.Success(c, http.StatusOK, "Media URL added", out)
}

type cropRequest struct {
	Source   string      `json:"source"`
	Crop     *media.Rect `json:"crop"`
	Rotation int         `json:"rotation"`
}

type cropResponse struct {
	URL     string     `json:"url"`
	Display media.Size `json:"display"`
}

// CropMedia - POST /v1/admin/media/crop
// Chạy full pipeline trên một ảnh: crop theo display-space rect, bake
// rotation, đóng watermark. Trả về data URI của ảnh final.
func (h *Handler) CropMedia(c *gin.Context) {
	var req cropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Rotation%90 != 0 {
		response.Error(c, http.StatusBadRequest, "Invalid rotation", "rotation must be a multiple of 90 degrees")
		return
	}

	session, err := media.NewSession(req.Source)
	if handleMediaError(c, err) {
		return
	}

	steps := (req.Rotation % 360) / 90
	for i := 0; i < steps; i++ {
		session.RotateRight()
	}
	for i := 0; i > steps; i-- {
		session.RotateLeft()
	}

	if req.Crop != nil {
		session.SetCrop(*req.Crop)
	}

	cropped, err := session.Confirm()
	if handleMediaError(c, err) {
		return
	}

	final, err := h.compositor.Apply(cropped)
	if handleMediaError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Image processed", cropResponse{
		URL:     final,
		Display: session.Display(),
	})
}

type classifyResponse struct {
	URL      string     `json:"url"`
	Kind     media.Kind `json:"kind"`
	EmbedURL string     `json:"embed_url,omitempty"`
}

// ClassifyMedia - GET /v1/admin/media/classify?url=...
// Preview helper: báo cho admin UI biết URL sẽ render thành image hay video
// player trước khi save.
func (h *Handler) ClassifyMedia(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		response.Error(c, http.StatusBadRequest, "Missing url parameter", "query parameter 'url' is required")
		return
	}

	out := classifyResponse{URL: raw, Kind: media.ClassifyURL(raw)}
	if out.Kind == media.KindVideo {
		if embed, ok := media.EmbedURL(raw); ok {
			out.EmbedURL = embed
		}
	}

	response.Success(c, http.StatusOK, "URL classified", out)
}

// currentEntries parses the optional "current" form value. Malformed JSON is
// treated as an empty list, the ceilings still apply to the batch itself.
func currentEntries(values []string) []media.Entry {
	if len(values) == 0 {
		return nil
	}

	var urls []string
	if err := json.Unmarshal([]byte(values[0]), &urls); err != nil {
		log.Warn().Err(err).Msg("Ignoring malformed 'current' field in media upload")
		return nil
	}

	entries := make([]media.Entry, 0, len(urls))
	for _, u := range media.Normalize(urls) {
		entries = append(entries, media.NewEntry(u))
	}
	return entries
}

// handleMediaError maps pipeline errors to HTTP responses. Returns true when
// the request is finished.
func handleMediaError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, media.ErrInvalidURL):
		response.Error(c, http.StatusBadRequest, "Invalid media URL", err.Error())
	case errors.Is(err, media.ErrDuplicateURL):
		response.Error(c, http.StatusConflict, "Duplicate media URL", err.Error())
	case errors.Is(err, media.ErrCountLimitExceeded):
		response.Error(c, http.StatusUnprocessableEntity, "Media limit reached", err.Error())
	case errors.Is(err, media.ErrSizeLimitExceeded):
		response.Error(c, http.StatusRequestEntityTooLarge, "File too large", err.Error())
	case errors.Is(err, media.ErrUnsupportedMediaType):
		response.Error(c, http.StatusBadRequest, "Unsupported media type", err.Error())
	case errors.Is(err, media.ErrDecodeFailure):
		response.Error(c, http.StatusBadRequest, "Image not decodable", err.Error())
	case errors.Is(err, media.ErrSessionClosed):
		response.Error(c, http.StatusConflict, "Crop session closed", err.Error())
	default:
		log.Error().Err(err).Msg("❌ Media pipeline error")
		response.Error(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
	return true
}
