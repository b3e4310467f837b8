package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"StudyBud/models"
	"StudyBud/pkg/config"
	"StudyBud/pkg/forum"
	tokenstore "StudyBud/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserKey   = "current_user"
	ContextClaimsKey = "current_claims"
)

// UserLoader resolves the user id carried by a session cookie.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser reads the session cookie and, when it names a live session,
// stores the user and its claims in the context. Anonymous requests pass
// through untouched; a stale cookie is cleared.
func LoadUser(users UserLoader, revoked tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(config.SessionCookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := tokenstore.Parse(config.JWTSecret, raw)
		if err != nil {
			ClearSession(c)
			c.Next()
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.JTI)
		if err != nil {
			log.Printf("[auth] revocation check failed for jti %s: %v", claims.JTI, err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if isRevoked {
			ClearSession(c)
			c.Next()
			return
		}

		user, err := users.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			// deleted accounts fall back to anonymous
			if !errors.Is(err, forum.ErrNotFound) {
				log.Printf("[auth] failed to load user %d: %v", claims.UserID, err)
			}
			ClearSession(c)
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireLogin redirects anonymous requests to the login page, carrying the
// requested path in ?next=.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginURL is the login page with next set to target.
func LoginURL(target string) string {
	return "/login?next=" + url.QueryEscape(target)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// CurrentClaims returns the claims of the request's session.
func CurrentClaims(c *gin.Context) (tokenstore.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return tokenstore.Claims{}, false
	}
	claims, ok := v.(tokenstore.Claims)
	return claims, ok
}

// StartSession sets the session cookie for a freshly issued token.
func StartSession(c *gin.Context, token string, claims tokenstore.Claims) {
	maxAge := int(time.Until(claims.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.SessionCookieName, token, maxAge, "/", "", config.IsProduction, true)
}

// ClearSession expires the session cookie.
func ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.SessionCookieName, "", -1, "/", "", config.IsProduction, true)
}
