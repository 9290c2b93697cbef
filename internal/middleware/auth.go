package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fmtlab/fmtlab/internal/metrics"
	"github.com/fmtlab/fmtlab/internal/models"
	"github.com/fmtlab/fmtlab/internal/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth for downstream handlers
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// RequireAuth validates the Authorization bearer token and stores the
// caller's identity in the request context. Failures always return the
// uniform envelope with HTTP 401.
func RequireAuth(issuer *token.Issuer, m metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure("Token not provided."))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure("Token not provided."))
			return
		}

		ident, err := issuer.Validate(tokenString)
		if err != nil {
			result := "invalid"
			if errors.Is(err, token.ErrExpiredToken) {
				result = "expired"
			}
			m.RecordTokenValidation(result)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure("User not authenticated."))
			return
		}
		m.RecordTokenValidation("valid")

		c.Set(ContextUserID, ident.UserID)
		c.Set(ContextUsername, ident.Username)
		c.Next()
	}
}
