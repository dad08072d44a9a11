package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"agatecity-backend/internal/domains/admin"
	"agatecity-backend/internal/shared/response"
	"agatecity-backend/pkg/cache"
	"agatecity-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CookieName là cookie mang admin session token.
const CookieName = "admin_session"

// Failed login throttling: sau maxLoginAttempts lần sai trong window,
// account bị khóa login đến khi counter expire.
const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
	attemptKeyPrefix   = "admin:login_attempts:"
)

// Handler - HTTP surface of back-office authentication
type Handler struct {
	store        admin.CredentialStore
	sessions     *session.Manager
	attempts     cache.Cache // nil disables throttling
	cookieSecure bool
}

// NewHandler - Constructor with DI. cookieSecure should be true behind TLS.
func NewHandler(store admin.CredentialStore, sessions *session.Manager, attempts cache.Cache, cookieSecure bool) *Handler {
	return &Handler{
		store:        store,
		sessions:     sessions,
		attempts:     attempts,
		cookieSecure: cookieSecure,
	}
}

// throttled trả 429 nếu account đã fail quá maxLoginAttempts lần
func (h *Handler) throttled(c *gin.Context, key string) bool {
	if h.attempts == nil {
		return false
	}

	var count int64
	found, err := h.attempts.Get(c.Request.Context(), key, &count)
	if err != nil || !found || count < maxLoginAttempts {
		return false
	}

	retryAfter := loginAttemptWindow
	if ttl, err := h.attempts.TTL(c.Request.Context(), key); err == nil && ttl > 0 {
		retryAfter = ttl
	}

	log.Warn().Str("key", key).Int64("attempts", count).Msg("⚠️ Admin login throttled")
	response.Error(c, http.StatusTooManyRequests, "Too many failed login attempts",
		fmt.Sprintf("try again in %s", retryAfter.Round(time.Second)))
	return true
}

func (h *Handler) recordFailure(c *gin.Context, key string) {
	if h.attempts == nil {
		return
	}

	ctx := c.Request.Context()
	n, err := h.attempts.Increment(ctx, key)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to track login attempt")
		return
	}
	if n == 1 {
		_ = h.attempts.Expire(ctx, key, loginAttemptWindow)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// Login - POST /v1/admin/auth/login
// Verify credentials và set session cookie (HttpOnly, SameSite=Lax, 24h).
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		response.BadRequest(c, "username and password are required")
		return
	}

	attemptKey := attemptKeyPrefix + strings.ToLower(strings.TrimSpace(req.Username))
	if h.throttled(c, attemptKey) {
		return
	}

	username, ok := h.store.Authenticate(req.Username, req.Password)
	if !ok {
		h.recordFailure(c, attemptKey)
		log.Warn().Str("username", req.Username).Msg("⚠️ Admin login rejected")
		response.Error(c, http.StatusUnauthorized, "Invalid credentials", "username or password is incorrect")
		return
	}

	if h.attempts != nil {
		_ = h.attempts.Delete(c.Request.Context(), attemptKey)
	}

	token, err := h.sessions.Issue(username)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to issue session token")
		response.Error(c, http.StatusInternalServerError, "Internal server error", "failed to create session")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)

	log.Info().Str("username", username).Msg("✅ Admin logged in")
	response.Success(c, http.StatusOK, "Login successful", sessionResponse{
		Authenticated: true,
		Username:      username,
	})
}

// Logout - POST /v1/admin/auth/logout
// Session tokens là stateless nên logout chỉ cần xóa cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", h.cookieSecure, true)

	response.Success(c, http.StatusOK, "Logout successful", sessionResponse{Authenticated: false})
}

// Session - GET /v1/admin/auth/session
// Reports whether the caller holds a valid session. Always 200: an absent or
// expired cookie is a normal state for this endpoint, not an error.
func (h *Handler) Session(c *gin.Context) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		response.Success(c, http.StatusOK, "No active session", sessionResponse{Authenticated: false})
		return
	}

	username, err := h.sessions.Validate(token)
	if err != nil {
		response.Success(c, http.StatusOK, "Session expired", sessionResponse{Authenticated: false})
		return
	}

	response.Success(c, http.StatusOK, "Session active", sessionResponse{
		Authenticated: true,
		Username:      username,
	})
}
