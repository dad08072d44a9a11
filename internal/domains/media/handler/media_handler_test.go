package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"agatecity-backend/internal/domains/media"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(media.NewAcquirer(media.DefaultLimits()), media.NewCompositor("theagatecity.com", ""))

	r := gin.New()
	r.POST("/v1/admin/media/acquire", h.AcquireMedia)
	r.POST("/v1/admin/media/url", h.AddMediaURL)
	r.POST("/v1/admin/media/crop", h.CropMedia)
	r.GET("/v1/media/classify", h.ClassifyMedia)
	return r
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 180, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func addFilePart(t *testing.T, w *multipart.Writer, field, filename, mime string, data []byte) {
	t.Helper()
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", mime)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func TestAcquireMediaMixedBatch(t *testing.T) {
	r := newMediaRouter()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	addFilePart(t, w, "files", "ring.jpg", "image/jpeg", jpegBytes(t, 40, 40))
	addFilePart(t, w, "files", "clip.mp4", "video/mp4", []byte("not-really-video"))
	addFilePart(t, w, "files", "notes.txt", "text/plain", []byte("hello"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/acquire", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var out struct {
		Videos []media.Entry `json:"videos"`
		ToCrop []struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		} `json:"to_crop"`
		Rejected []struct {
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	require.Len(t, out.Videos, 1)
	assert.Equal(t, "clip.mp4", out.Videos[0].DisplayName)
	assert.Equal(t, media.KindVideo, out.Videos[0].Kind)

	require.Len(t, out.ToCrop, 1)
	assert.Equal(t, "ring.jpg", out.ToCrop[0].Name)
	assert.True(t, strings.HasPrefix(out.ToCrop[0].Source, "data:image/jpeg;base64,"))

	require.Len(t, out.Rejected, 1)
	assert.Equal(t, "notes.txt", out.Rejected[0].Name)
	assert.Contains(t, out.Rejected[0].Reason, "not an image or video")
}

func TestAcquireMediaCountCeiling(t *testing.T) {
	r := newMediaRouter()

	current, _ := json.Marshal([]string{
		"https://a.test/1.jpg",
		"https://a.test/2.jpg",
		"https://a.test/3.jpg",
		"https://a.test/4.jpg",
	})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("current", string(current)))
	addFilePart(t, w, "files", "fifth.jpg", "image/jpeg", jpegBytes(t, 20, 20))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/acquire", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var out struct {
		Rejected []struct {
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Rejected, 1)
	assert.Contains(t, out.Rejected[0].Reason, "maximum 4 images")
}

func TestAcquireMediaNoFiles(t *testing.T) {
	r := newMediaRouter()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("current", "[]"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/acquire", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddMediaURLVideoEmbed(t *testing.T) {
	r := newMediaRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"url": "https://www.youtube.com/watch?v=abc123",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/url", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "youtube.com/embed/abc123")
}

func TestAddMediaURLDuplicate(t *testing.T) {
	r := newMediaRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"url":     "https://a.test/stone.jpg",
		"current": []string{"https://a.test/stone.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/url", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddMediaURLInvalid(t *testing.T) {
	r := newMediaRouter()

	body, _ := json.Marshal(map[string]interface{}{"url": "   "})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/url", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCropMediaFullPipeline(t *testing.T) {
	r := newMediaRouter()

	source := media.EncodeDataURL("image/jpeg", jpegBytes(t, 800, 800))
	body, _ := json.Marshal(map[string]interface{}{
		"source": source,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/crop", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var out struct {
		URL     string     `json:"url"`
		Display media.Size `json:"display"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, strings.HasPrefix(out.URL, "data:image/jpeg;base64,"))
	// 800x800 fit vào viewport 600x400 theo chiều cao
	assert.InDelta(t, 400.0, out.Display.Height, 0.01)
	assert.InDelta(t, 400.0, out.Display.Width, 0.01)
}

func TestCropMediaRotationMustBeRightAngle(t *testing.T) {
	r := newMediaRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"source":   "data:image/jpeg;base64,AAAA",
		"rotation": 45,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/crop", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCropMediaUndecodableSource(t *testing.T) {
	r := newMediaRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"source": media.EncodeDataURL("image/jpeg", []byte("junk")),
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/crop", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyMedia(t *testing.T) {
	r := newMediaRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/media/classify?url=https://youtu.be/xyz789", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"video"`)
	assert.Contains(t, rec.Body.String(), "youtube.com/embed/xyz789")
}

func TestClassifyMediaMissingURL(t *testing.T) {
	r := newMediaRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/media/classify", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
