package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// sessionResolver is the subset of SessionUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type sessionResolver interface {
	Resolve(ctx context.Context, credential string) (*domain.Identity, error)
}

type SessionHandler struct {
	sessions   sessionResolver
	cookieName string
	logger     *slog.Logger
}

func NewSessionHandler(sessions sessionResolver, cookieName string, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger.With("component", "session_handler"),
	}
}

// GET /session
// Always 200 — "not logged in" is a normal state, not an HTTP failure,
// so clients handle one response shape. Store outages also come back as
// authenticated:false rather than breaking page rendering.
func (h *SessionHandler) Current(c *gin.Context) {
	cred := middleware.Credential(c, h.cookieName)

	identity, err := h.sessions.Resolve(c.Request.Context(), cred)
	if err != nil {
		var inactive *domain.InactiveError
		switch {
		case errors.As(err, &inactive):
			c.JSON(http.StatusOK, gin.H{"authenticated": false, "error": inactive.Status})
		case errors.Is(err, domain.ErrSessionInvalid):
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
		default:
			h.logger.ErrorContext(c.Request.Context(), "resolve session", "error", err)
			c.JSON(http.StatusOK, gin.H{"authenticated": false, "error": errCouldNotValidate})
		}
		return
	}

	if identity == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": identity})
}

type validateTokenRequest struct {
	Token string `json:"token"`
}

// POST /validate-token
// Like GET /session but the credential may also arrive in the body.
// 400 when no credential at all, 401 when it is wrong/stale/inactive.
func (h *SessionHandler) ValidateToken(c *gin.Context) {
	var req validateTokenRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	cred := req.Token
	if cred == "" {
		cred = middleware.Credential(c, h.cookieName)
	}
	if cred == "" {
		c.JSON(http.StatusBadRequest, gin.H{"authenticated": false, "error": errNoToken})
		return
	}

	identity, err := h.sessions.Resolve(c.Request.Context(), cred)
	if err != nil {
		var inactive *domain.InactiveError
		switch {
		case errors.As(err, &inactive):
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": inactive.Status})
		case errors.Is(err, domain.ErrSessionInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": errTokenInvalid})
		default:
			h.logger.ErrorContext(c.Request.Context(), "validate token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"authenticated": false, "error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": identity})
}

// POST /logout
// Clears the client-held cookie only. The server-side static token stays
// valid; there is nothing to invalidate without clearing the user record.
func (h *SessionHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
