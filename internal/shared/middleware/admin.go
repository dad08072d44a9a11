package middleware

import (
	"agatecity-backend/internal/shared/response"
	"agatecity-backend/pkg/session"

	"github.com/gin-gonic/gin"
)

// AdminCookieName phải khớp với cookie mà auth handler set.
const AdminCookieName = "admin_session"

// AdminRoster reports whether a username is still a valid admin.
// Satisfied by admin.CredentialStore.
type AdminRoster interface {
	Contains(username string) bool
}

// AdminMiddleware gates back-office routes behind a valid session cookie.
// Tokens are stateless, nên ngoài signature/expiry còn re-check username
// với roster: admin bị gỡ thì token đang sống cũng bị từ chối.
// The canonical admin username is stored in context under "admin_user".
func AdminMiddleware(sessions *session.Manager, roster AdminRoster) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || token == "" {
			response.Unauthorized(c, "Access denied: admin session required")
			c.Abort()
			return
		}

		username, err := sessions.Validate(token)
		if err != nil {
			response.Unauthorized(c, "Access denied: session invalid or expired")
			c.Abort()
			return
		}

		if roster == nil || !roster.Contains(username) {
			response.Unauthorized(c, "Access denied: admin account no longer active")
			c.Abort()
			return
		}

		c.Set("admin_user", username)
		c.Next()
	}
}
