package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/studiodesk/internal/pkg/auth"
)

const (
	// AdminIDContextKey is a gin context key for the authenticated admin identifier.
	AdminIDContextKey = "adminID"
	authCookieName    = "studiodesk_admin"
)

// TokenParser resolves an admin identifier from a bearer token.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// AuthRequired ensures an admin is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		adminID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(AdminIDContextKey, adminID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the admin token cookie, scoped to the admin API and expiring with the token.
func SetAuthCookie(c *gin.Context, token pkgAuth.Token) {
	maxAge := 0
	if !token.ExpiresAt.IsZero() {
		maxAge = int(time.Until(token.ExpiresAt).Seconds())
	}
	secure := c.Request != nil && c.Request.TLS != nil
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token.Value, maxAge, "/api/admin", "", secure, true)
	c.Header("Authorization", "Bearer "+token.Value)
}
