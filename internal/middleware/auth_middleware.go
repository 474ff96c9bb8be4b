package middleware

import (
	"net/http"
	"strings"

	"trellix/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDKey is the gin context key holding the authenticated account id.
	UserIDKey = "userID"

	// AuthCookie carries the session token for browser form posts.
	AuthCookie = "auth"
)

// JWTAuthMiddleware authenticates the request from an "Authorization:
// Bearer" header, falling back to the auth cookie, and stores the account
// id under UserIDKey.
func JWTAuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			return
		}

		subject, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
			return cookie, true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
		return "", false
	}
	return parts[1], true
}

// AccountID returns the id stored by JWTAuthMiddleware.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
