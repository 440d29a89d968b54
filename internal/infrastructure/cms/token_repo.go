package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/token"
)

const collVerificationTokens = "verification_tokens"

type VerificationTokenRepository struct {
	client *Client
}

func NewVerificationTokenRepository(client *Client) *VerificationTokenRepository {
	return &VerificationTokenRepository{client: client}
}

func (r *VerificationTokenRepository) Create(ctx context.Context, userID, tokenHash, purpose, expiresAt string) error {
	payload := map[string]any{
		"user":       userID,
		"token_hash": tokenHash,
		"purpose":    purpose,
		"used":       false,
		"expires_at": expiresAt,
	}
	resp, err := r.client.Do(ctx, http.MethodPost, "/items/"+collVerificationTokens, payload, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("create verification token: %w", storeError(resp))
	}
	return nil
}

// Find looks up the unused token record for tokenHash and purpose.
// Not-found, already-used and wrong-purpose all collapse into
// domain.ErrTokenInvalid so callers cannot tell them apart.
func (r *VerificationTokenRepository) Find(ctx context.Context, tokenHash, purpose string) (*domain.VerificationToken, error) {
	q := url.Values{}
	q.Set("filter[token_hash][_eq]", tokenHash)
	q.Set("filter[used][_eq]", "false")
	q.Set("filter[purpose][_eq]", purpose)
	q.Set("fields", "id,user,purpose,used,expires_at")
	q.Set("limit", "1")

	resp, err := r.client.Do(ctx, http.MethodGet, "/items/"+collVerificationTokens+"?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("find verification token: %w", storeError(resp))
	}

	var tokens []domain.VerificationToken
	if err := decodeData(resp.Body, &tokens); err != nil {
		return nil, fmt.Errorf("find verification token: %w", err)
	}
	if len(tokens) == 0 {
		return nil, domain.ErrTokenInvalid
	}
	return &tokens[0], nil
}

// Claim marks the record used via a conditional update: the patch is
// filtered on used=false, so of two racing consumes exactly one sees an
// affected count of one. The loser gets domain.ErrTokenInvalid.
func (r *VerificationTokenRepository) Claim(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("filter[id][_eq]", id)
	q.Set("filter[used][_eq]", "false")

	payload := map[string]any{
		"used":    true,
		"used_at": token.NowISO(),
	}
	resp, err := r.client.Do(ctx, http.MethodPatch, "/items/"+collVerificationTokens+"?"+q.Encode(), payload, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("claim verification token: %w", storeError(resp))
	}

	var updated []struct {
		ID string `json:"id"`
	}
	if err := decodeData(resp.Body, &updated); err != nil {
		return fmt.Errorf("claim verification token: %w", err)
	}
	if len(updated) != 1 {
		return domain.ErrTokenInvalid
	}
	return nil
}
