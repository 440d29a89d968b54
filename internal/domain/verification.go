package domain

import "time"

// PurposeEmailVerify is the only verification-token purpose this core
// consumes. The collection may hold other purposes (password_reset);
// they are filtered out at query time.
const PurposeEmailVerify = "email_verify"

// VerificationToken is a one-time credential stored only as a keyed
// hash. The plaintext exists exactly once, inside the email sent to
// the user. Records are consumed at most once and never deleted.
type VerificationToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	TokenHash string     `json:"token_hash"`
	Purpose   string     `json:"purpose"`
	Used      bool       `json:"used"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Expired reports whether the token can no longer be consumed.
// Expiry is derived at read time, never stored.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
