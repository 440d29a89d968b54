package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusnest/campusnest-api/internal/domain"
)

const collProfiles = "profiles"

// ProfileRepository updates the marketplace profile linked to a user.
// Callers treat every method here as best-effort.
type ProfileRepository struct {
	client *Client
}

func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) MarkVerified(ctx context.Context, userID string) error {
	q := url.Values{}
	q.Set("filter[user][_eq]", userID)

	payload := map[string]any{"status": "verified"}
	resp, err := r.client.Do(ctx, http.MethodPatch, "/items/"+collProfiles+"?"+q.Encode(), payload, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("mark profile verified: %w", storeError(resp))
	}
	return nil
}
