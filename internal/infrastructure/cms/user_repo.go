package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusnest/campusnest-api/internal/domain"
)

const (
	collUsers = "users"

	// Only what the session resolver needs; the plaintext token itself is
	// never read back.
	identityFields = "id,email,first_name,last_name,status,role.id,role.name"
)

type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// FindByToken resolves a static session credential by exact plaintext
// equality against the user collection's token field. The comparison is
// delegated to the store's query engine; it is not timing-safe.
func (r *UserRepository) FindByToken(ctx context.Context, tok string) (*domain.User, error) {
	q := url.Values{}
	q.Set("filter[token][_eq]", tok)
	q.Set("fields", identityFields)
	q.Set("limit", "1")
	return r.findOne(ctx, q)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := url.Values{}
	q.Set("filter[email][_eq]", email)
	q.Set("fields", identityFields)
	q.Set("limit", "1")
	return r.findOne(ctx, q)
}

func (r *UserRepository) findOne(ctx context.Context, q url.Values) (*domain.User, error) {
	resp, err := r.client.Do(ctx, http.MethodGet, "/items/"+collUsers+"?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("find user: %w", storeError(resp))
	}

	var users []domain.User
	if err := decodeData(resp.Body, &users); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &users[0], nil
}

// Activate transitions the user to status=active. This is the account
// activation effect of a successful verification consume.
func (r *UserRepository) Activate(ctx context.Context, id string) error {
	payload := map[string]any{"status": domain.UserStatusActive}
	resp, err := r.client.Do(ctx, http.MethodPatch, "/items/"+collUsers+"/"+url.PathEscape(id), payload, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("activate user %s: %w", id, storeError(resp))
	}
	return nil
}
