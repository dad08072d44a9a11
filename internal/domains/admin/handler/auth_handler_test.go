package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agatecity-backend/internal/domains/admin"
	"agatecity-backend/internal/shared/middleware"
	"agatecity-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache là in-memory cache đủ cho login throttle tests
type memCache struct {
	counters map[string]int64
}

func newMemCache() *memCache {
	return &memCache{counters: make(map[string]int64)}
}

func (m *memCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	n, ok := m.counters[key]
	if !ok {
		return false, nil
	}
	if p, ok := dest.(*int64); ok {
		*p = n
	}
	return true, nil
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.counters, k)
	}
	return nil
}

func (m *memCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (m *memCache) Ping(ctx context.Context) error { return nil }

func (m *memCache) Increment(ctx context.Context, key string) (int64, error) {
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func (m *memCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return 10 * time.Minute, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager("test-secret", time.Hour)
	store := admin.DefaultStore()
	h := NewHandler(store, sessions, newMemCache(), false)

	r := gin.New()
	r.POST("/v1/admin/auth/login", h.Login)
	r.POST("/v1/admin/auth/logout", h.Logout)
	r.GET("/v1/admin/auth/session", h.Session)
	r.GET("/v1/admin/protected", middleware.AdminMiddleware(sessions, store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("admin_user")})
	})
	return r, sessions
}

func doLogin(t *testing.T, r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/login", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, sessions := newTestRouter(t)

	w := doLogin(t, r, "Kaleem", "theagatecity@ks")
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.InDelta(t, int(time.Hour.Seconds()), cookie.MaxAge, 5)

	username, err := sessions.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "Kaleem", username)
}

func TestLoginCaseInsensitiveUsername(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doLogin(t, r, "  shahrukh ", "theagatecity@sk")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Shahrukh", body.Data.Username)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	// Thiếu field là request lỗi, không phải credentials sai
	assert.Equal(t, http.StatusBadRequest, doLogin(t, r, "", "theagatecity@ks").Code)
	assert.Equal(t, http.StatusBadRequest, doLogin(t, r, "Kaleem", "").Code)
	assert.Equal(t, http.StatusBadRequest, doLogin(t, r, "   ", "secret").Code)
	assert.Equal(t, http.StatusBadRequest, doLogin(t, r, "", "").Code)

	// Malformed JSON cũng 400
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doLogin(t, r, "Kaleem", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doLogin(t, r, "Kaleem", "theagatecity@ks ").Code)
	assert.Equal(t, http.StatusUnauthorized, doLogin(t, r, "ghost", "theagatecity@ks").Code)

	w := doLogin(t, r, "Kaleem", "wrong")
	assert.Nil(t, sessionCookie(w.Result()))
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	r, _ := newTestRouter(t)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, doLogin(t, r, "Kaleem", "wrong").Code)
	}

	// Throttle kicks in ngay cả với password đúng
	w := doLogin(t, r, "Kaleem", "theagatecity@ks")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Username khác không bị ảnh hưởng
	assert.Equal(t, http.StatusOK, doLogin(t, r, "Shahrukh", "theagatecity@sk").Code)
}

func TestLoginSuccessResetsThrottleCounter(t *testing.T) {
	r, _ := newTestRouter(t)

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusUnauthorized, doLogin(t, r, "Kaleem", "wrong").Code)
	}

	// Login đúng trước khi chạm ngưỡng clears counter
	assert.Equal(t, http.StatusOK, doLogin(t, r, "Kaleem", "theagatecity@ks").Code)

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusUnauthorized, doLogin(t, r, "Kaleem", "wrong").Code)
	}
	assert.Equal(t, http.StatusOK, doLogin(t, r, "Kaleem", "theagatecity@ks").Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestSessionEndpointReportsState(t *testing.T) {
	r, sessions := newTestRouter(t)

	// No cookie
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/auth/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// Valid cookie
	token, err := sessions.Issue("Kaleem")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"Kaleem"`)

	// Garbage cookie still answers 200
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "junk"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestAdminMiddlewareGatesRoutes(t *testing.T) {
	r, sessions := newTestRouter(t)

	// No cookie -> 401
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad token -> 401
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "junk"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token -> 200 with admin_user in context
	token, err := sessions.Issue("Shahrukh")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shahrukh")
}

func TestAdminMiddlewareRejectsUsernameOutsideRoster(t *testing.T) {
	r, sessions := newTestRouter(t)

	// Token ký đúng secret nhưng username không còn trong roster.
	// Xảy ra khi admin bị gỡ mà session cũ vẫn chưa hết hạn.
	token, err := sessions.Issue("former-admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no longer active")
}
