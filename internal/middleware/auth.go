package middleware

import (
	"net/http"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/auth"
	"github.com/Liyulingyue/PaddleLabel/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter because browsers cannot set headers on a websocket upgrade.
func bearerToken(c *gin.Context) string {
	if scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && scheme == "Bearer" {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "unauthorized"})
}

// JWTAuthMiddleware rejects requests without a valid token and exposes the
// caller as "user_id" and "username" on the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "Authorization token is required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.Named("auth").Debug("rejected token",
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(err))
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
