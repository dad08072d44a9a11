package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS cho storefront và admin panel gọi API từ browser.
// CORS_ALLOWED_ORIGINS: comma-separated list, "*" cho development.
func CORS() gin.HandlerFunc {
	allowed := strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ",")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if originAllowed(allowed, origin) {
			if allowed[0] == "*" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				// Cookies chỉ gửi được khi origin cụ thể
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || strings.TrimSpace(a) == origin {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
