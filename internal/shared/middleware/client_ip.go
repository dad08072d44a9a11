package middleware

import (
	"context"

	"agatecity-backend/internal/shared/utils"
	"agatecity-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type clientIPKey struct{}

// ClientIPMiddleware extract client IP và inject vào context cho downstream
// handlers. Đăng ký sớm trong middleware chain.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, clientIP)
		c.Request = c.Request.WithContext(ctx)

		if !utils.IsPrivateIP(clientIP) {
			logger.Debug("Client IP extracted: " + clientIP)
		}

		c.Next()
	}
}

// GetClientIPFromContext lấy client IP từ request context, "" nếu không có
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}
