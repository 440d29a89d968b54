package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/metrics"
	"github.com/campusnest/campusnest-api/internal/repository"
)

// SessionUsecase answers "who, if anyone, is making this request". There
// is no server-side session table: the user record's own token column is
// the session store. Resolution is a pure read — no rotation, no sliding
// expiration, no side effects.
type SessionUsecase struct {
	users repository.UserRepository
}

func NewSessionUsecase(users repository.UserRepository) *SessionUsecase {
	return &SessionUsecase{users: users}
}

// Resolve maps a presented credential to a normalized identity.
//
// An empty credential is a guest, not an error: (nil, nil).
// No matching user: domain.ErrSessionInvalid.
// Matching user with status != active: *domain.InactiveError carrying the
// status, so callers can explain without granting access.
// Store outage: an error wrapping domain.ErrStoreUnavailable; callers must
// render it as not-authenticated, never as a hard page failure.
func (u *SessionUsecase) Resolve(ctx context.Context, credential string) (*domain.Identity, error) {
	if credential == "" {
		metrics.SessionResolutionsTotal.WithLabelValues("guest").Inc()
		return nil, nil
	}

	user, err := u.users.FindByToken(ctx, credential)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.SessionResolutionsTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrSessionInvalid
		case errors.Is(err, domain.ErrStoreUnavailable):
			metrics.SessionResolutionsTotal.WithLabelValues("store_error").Inc()
			return nil, err
		default:
			metrics.SessionResolutionsTotal.WithLabelValues("store_error").Inc()
			return nil, fmt.Errorf("resolve session: %w", err)
		}
	}

	if user.Status != domain.UserStatusActive {
		metrics.SessionResolutionsTotal.WithLabelValues("inactive").Inc()
		return nil, &domain.InactiveError{Status: user.Status}
	}

	metrics.SessionResolutionsTotal.WithLabelValues("authenticated").Inc()
	return user.Identity(), nil
}
