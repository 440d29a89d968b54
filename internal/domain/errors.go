package domain

import "errors"

var (
	// ErrUserNotFound is returned when a filtered user read matches no record.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionInvalid means the presented credential matches no user's
	// stored token. Indistinguishable from an unauthenticated guest on
	// purpose.
	ErrSessionInvalid = errors.New("session token does not match any user")

	// ErrTokenInvalid covers every consume failure an attacker could probe:
	// never existed, already used, wrong purpose, expired. One message for
	// all of them.
	ErrTokenInvalid = errors.New("verification token is invalid or expired")

	// ErrTokenOrphaned means the token record exists but carries no linked
	// user. A data problem, not an invalid token, so it gets its own error.
	ErrTokenOrphaned = errors.New("verification token has no linked user")

	// ErrStoreUnavailable wraps transport-level failures talking to the
	// record store. Handlers must never leak the underlying detail.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// InactiveError is returned when a credential resolves to a user whose
// status is not active. The status is surfaced so the UI can guide the
// user, but no access is granted.
type InactiveError struct {
	Status string
}

func (e *InactiveError) Error() string {
	return "account is " + e.Status
}
