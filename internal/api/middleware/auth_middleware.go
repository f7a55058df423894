package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartintern/internal/auth"
)

const userEmailKey = "userEmail"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AuthMiddleware 校验访问令牌并将调用者邮箱注入上下文。
func AuthMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		rawToken := parts[1]
		if strings.TrimSpace(rawToken) == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := authService.ValidateToken(rawToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userEmailKey, claims.Subject)
		c.Next()
	}
}

// UserEmailFromContext returns the authenticated caller's email, the scoping
// key for all application data.
func UserEmailFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(userEmailKey)
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
