package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// Point-of-use interfaces so tests can inject fakes.
type verifyConsumer interface {
	Consume(ctx context.Context, plainToken string) (string, error)
}

type verificationIssuer interface {
	IssueVerification(ctx context.Context, email string) error
}

// VerifyHandler drives the one verification core through two adapters:
// a link flow (GET, redirect outcome) and an API flow (POST, JSON outcome).
type VerifyHandler struct {
	verify     verifyConsumer
	register   verificationIssuer
	successURL string
	errorURL   string
	logger     *slog.Logger
}

func NewVerifyHandler(verify verifyConsumer, register verificationIssuer, successURL, errorURL string, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{
		verify:     verify,
		register:   register,
		successURL: successURL,
		errorURL:   errorURL,
		logger:     logger.With("component", "verify_handler"),
	}
}

// GET /verify?t=<token>  (legacy links use ?token=)
// The outcome is a redirect; the error page never learns which
// validation step failed.
func (h *VerifyHandler) VerifyLink(c *gin.Context) {
	plain := c.Query("t")
	if plain == "" {
		plain = c.Query("token")
	}
	if plain == "" {
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}

	userID, err := h.verify.Consume(c.Request.Context(), plain)
	if err != nil {
		h.logVerifyFailure(c, err)
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "account verified", "user_id", userID)
	c.Redirect(http.StatusFound, h.successURL)
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// POST /verify
// JSON adapter over the same consume operation. 400 on a missing token
// or a failed verification.
func (h *VerifyHandler) VerifyAPI(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errNoToken})
		return
	}

	userID, err := h.verify.Consume(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errTokenInvalid})
		case errors.Is(err, domain.ErrTokenOrphaned):
			h.logger.ErrorContext(c.Request.Context(), "orphaned verification token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errTokenInconsistent})
		default:
			h.logger.ErrorContext(c.Request.Context(), "consume verification token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user_id": userID})
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/resend-verification
// Always returns 200 to avoid revealing whether the email exists.
func (h *VerifyHandler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.register.IssueVerification(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "issue verification", "error", err)
	}

	c.Status(http.StatusOK)
}

func (h *VerifyHandler) logVerifyFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTokenInvalid):
		h.logger.InfoContext(c.Request.Context(), "verification rejected", "error", err)
	case errors.Is(err, domain.ErrTokenOrphaned):
		h.logger.ErrorContext(c.Request.Context(), "orphaned verification token", "error", err)
	default:
		h.logger.ErrorContext(c.Request.Context(), "consume verification token", "error", err)
	}
}
