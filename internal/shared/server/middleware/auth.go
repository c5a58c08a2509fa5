package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
)

// UserResolver confirms that a token subject still maps to an account.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (bool, error)
}

// Auth requires a valid bearer token whose subject resolves to a known user.
func Auth(signer *auth.Signer, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "No token provided", "")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == "null" || token == "undefined" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid token format", "")
			return
		}

		claims, err := signer.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				respond.Error(c, http.StatusUnauthorized, "token_expired", "Token expired", "")
			default:
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid token", "")
			}
			return
		}

		if users != nil {
			found, err := users.ResolveUser(c.Request.Context(), claims.UserID)
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "Server Error", err.Error())
				return
			}
			if !found {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "User not found", "")
				return
			}
		}

		c.Set(userIDKey, claims.UserID)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
