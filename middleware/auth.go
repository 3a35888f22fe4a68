package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/surveyguy/surveyguy-server/config"
	"github.com/surveyguy/surveyguy-server/models"
	"github.com/surveyguy/surveyguy-server/utils"
)

const (
	CtxUser     = "user"
	CtxSurvey   = "surveyObj"
	CtxQuestion = "questionObj"
)

// AuthJWT checks Authorization: Bearer <token>, validates the JWT, loads
// the user and injects it into the request context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		var user models.User
		if err := config.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid bearer token is present but lets
// anonymous requests straight through. Used on the public response intake,
// where login is only enforced per-survey by its settings.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.Next()
			return
		}
		claims, err := utils.VerifyToken(strings.TrimSpace(authHeader[7:]))
		if err != nil {
			c.Next()
			return
		}
		var user models.User
		if err := config.DB.First(&user, "id = ?", claims.UserID).Error; err == nil {
			c.Set(CtxUser, user)
		}
		c.Next()
	}
}

// RequireAdmin gates admin-only routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		u := v.(models.User)
		if !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
