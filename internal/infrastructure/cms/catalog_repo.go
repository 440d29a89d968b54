package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusnest/campusnest-api/internal/domain"
)

// CatalogRepository is the read-mostly pass-through for marketplace
// collections. It forwards the store's status and body verbatim so the
// HTTP layer can proxy responses without reshaping them.
type CatalogRepository struct {
	client *Client
}

func NewCatalogRepository(client *Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

func (r *CatalogRepository) List(ctx context.Context, collection string, query url.Values) (int, []byte, error) {
	path := "/items/" + url.PathEscape(collection)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	resp, err := r.client.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return resp.Status, resp.Body, nil
}

func (r *CatalogRepository) Get(ctx context.Context, collection, id string) (int, []byte, error) {
	resp, err := r.client.Do(ctx, http.MethodGet, "/items/"+url.PathEscape(collection)+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return resp.Status, resp.Body, nil
}

func (r *CatalogRepository) CreateIn(ctx context.Context, collection string, payload map[string]any) (int, []byte, error) {
	resp, err := r.client.Do(ctx, http.MethodPost, "/items/"+url.PathEscape(collection), payload, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return resp.Status, resp.Body, nil
}
