package repository

import (
	"context"
	"net/url"
)

// CollectionReader is the pass-through surface for catalog collections
// (properties, universities, team, gallery). It forwards the store's
// status and raw body so handlers can proxy responses verbatim.
type CollectionReader interface {
	List(ctx context.Context, collection string, query url.Values) (int, []byte, error)
	Get(ctx context.Context, collection, id string) (int, []byte, error)
	CreateIn(ctx context.Context, collection string, payload map[string]any) (int, []byte, error)
}
