package repository

import (
	"context"

	"github.com/campusnest/campusnest-api/internal/domain"
)

type UserRepository interface {
	// FindByToken returns the user whose stored session token exactly
	// equals token. domain.ErrUserNotFound when no record matches.
	FindByToken(ctx context.Context, token string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Activate patches the user's status to active.
	Activate(ctx context.Context, id string) error
}

type VerificationTokenRepository interface {
	Create(ctx context.Context, userID, tokenHash, purpose, expiresAt string) error
	// Find returns the unused token record matching tokenHash and purpose.
	// domain.ErrTokenInvalid when no record matches.
	Find(ctx context.Context, tokenHash, purpose string) (*domain.VerificationToken, error)
	// Claim marks the record used, conditional on it still being unused.
	// domain.ErrTokenInvalid when the conditional update matched nothing,
	// i.e. a concurrent consume won the race.
	Claim(ctx context.Context, id string) error
}

// ProfileRepository mirrors the marketplace profile collection linked
// 1:1 to users. Only the best-effort verified flag lives here.
type ProfileRepository interface {
	MarkVerified(ctx context.Context, userID string) error
}
