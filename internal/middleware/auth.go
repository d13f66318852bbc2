package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/services"
	"github.com/atelierlink/marketplace-backend/internal/types"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLog := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLog, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		userID, role, err := am.authService.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

func (am *AuthMiddleware) RequireArtisan() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c) != types.RoleArtisan {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "artisan role required"})
			return
		}
		c.Next()
	}
}

// UserIDFrom returns uuid.Nil when the request is unauthenticated.
func UserIDFrom(c *gin.Context) uuid.UUID {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func RoleFrom(c *gin.Context) string {
	raw, ok := c.Get(ContextRoleKey)
	if !ok {
		return ""
	}
	role, _ := raw.(string)
	return role
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}
