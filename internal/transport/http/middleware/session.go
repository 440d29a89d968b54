package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// sessionResolver is the subset of SessionUsecase the middleware needs.
// Defined here (point of use) so tests can inject a fake.
type sessionResolver interface {
	Resolve(ctx context.Context, credential string) (*domain.Identity, error)
}

// Credential extracts the session credential from the request: the
// httpOnly session cookie first, then Authorization: Bearer. Absence of
// both yields "" — an ordinary guest, not an error.
func Credential(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Session resolves the inbound credential and, on success, attaches the
// identity to the request context. Resolution failures of any kind leave
// the request unauthenticated and never abort it; RequireUser decides
// whether that matters.
func Session(sessions sessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := Credential(c, cookieName)
		if cred != "" {
			if identity, err := sessions.Resolve(c.Request.Context(), cred); err == nil && identity != nil {
				ctx := domain.WithIdentity(c.Request.Context(), identity)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

// RequireUser runs after Session and rejects unauthenticated requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if domain.IdentityFromContext(c.Request.Context()) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
