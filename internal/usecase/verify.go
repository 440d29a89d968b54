package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/metrics"
	"github.com/campusnest/campusnest-api/internal/repository"
	"github.com/campusnest/campusnest-api/internal/token"
)

// VerifyUsecase consumes one-time verification tokens. The only forward
// transition is unused -> used; expiry is derived at read time and an
// expired token can never be consumed.
type VerifyUsecase struct {
	users    repository.UserRepository
	tokens   repository.VerificationTokenRepository
	profiles repository.ProfileRepository
	codec    *token.Codec
	logger   *slog.Logger
	now      func() time.Time
}

func NewVerifyUsecase(
	users repository.UserRepository,
	tokens repository.VerificationTokenRepository,
	profiles repository.ProfileRepository,
	codec *token.Codec,
	logger *slog.Logger,
) *VerifyUsecase {
	return &VerifyUsecase{
		users:    users,
		tokens:   tokens,
		profiles: profiles,
		codec:    codec,
		logger:   logger.With("component", "verify_usecase"),
		now:      time.Now,
	}
}

// Consume validates plainToken and activates the linked account. Returns
// the activated user's id.
//
// Failure classes: domain.ErrTokenInvalid for everything an attacker could
// probe (unknown, already used, wrong purpose, expired, lost race) and
// domain.ErrTokenOrphaned when the record has no linked user.
//
// The token is claimed — marked used via a conditional update — BEFORE the
// account is activated, so a replayed token can never re-enter the flow
// even if activation later fails. The claim result is always checked.
func (u *VerifyUsecase) Consume(ctx context.Context, plainToken string) (string, error) {
	tokenHash := u.codec.Hash(plainToken)

	vt, err := u.tokens.Find(ctx, tokenHash, domain.PurposeEmailVerify)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
			return "", domain.ErrTokenInvalid
		}
		metrics.VerificationsTotal.WithLabelValues("store_error").Inc()
		return "", fmt.Errorf("find token: %w", err)
	}

	if vt.Expired(u.now()) {
		metrics.VerificationsTotal.WithLabelValues("expired").Inc()
		return "", domain.ErrTokenInvalid
	}

	if vt.UserID == "" {
		metrics.VerificationsTotal.WithLabelValues("orphaned").Inc()
		return "", domain.ErrTokenOrphaned
	}

	if err := u.tokens.Claim(ctx, vt.ID); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
			return "", domain.ErrTokenInvalid
		}
		metrics.VerificationsTotal.WithLabelValues("store_error").Inc()
		return "", fmt.Errorf("claim token: %w", err)
	}

	if err := u.users.Activate(ctx, vt.UserID); err != nil {
		metrics.VerificationsTotal.WithLabelValues("store_error").Inc()
		return "", fmt.Errorf("activate user: %w", err)
	}

	// Best-effort: the marketplace profile's verified flag is cosmetic.
	if err := u.profiles.MarkVerified(ctx, vt.UserID); err != nil {
		u.logger.WarnContext(ctx, "mark profile verified", "user_id", vt.UserID, "error", err)
	}

	metrics.VerificationsTotal.WithLabelValues("consumed").Inc()
	return vt.UserID, nil
}
