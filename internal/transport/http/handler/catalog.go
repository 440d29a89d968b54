package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// listingParams are the store query params the proxy forwards. Anything
// else a client sends is dropped.
var listingParams = []string{"limit", "page", "sort", "search", "fields"}

// CatalogHandler proxies marketplace collections straight from the record
// store. No invariants beyond "forward the call": status and body pass
// through verbatim, including store-side 4xx.
type CatalogHandler struct {
	store  repository.CollectionReader
	logger *slog.Logger
}

func NewCatalogHandler(store repository.CollectionReader, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:  store,
		logger: logger.With("component", "catalog_handler"),
	}
}

// List returns a gin handler proxying GET /items/<collection>.
func (h *CatalogHandler) List(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := url.Values{}
		for _, p := range listingParams {
			if v := c.Query(p); v != "" {
				query.Set(p, v)
			}
		}

		status, body, err := h.store.List(c.Request.Context(), collection, query)
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "list collection", "collection", collection, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
		c.Data(status, "application/json", body)
	}
}

// Get returns a gin handler proxying GET /items/<collection>/:id.
func (h *CatalogHandler) Get(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, body, err := h.store.Get(c.Request.Context(), collection, c.Param("id"))
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "get item", "collection", collection, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
		c.Data(status, "application/json", body)
	}
}

// CreateProperty proxies POST /properties for authenticated users,
// stamping the resolved identity as the listing owner.
func (h *CatalogHandler) CreateProperty(c *gin.Context) {
	identity := domain.IdentityFromContext(c.Request.Context())
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload["owner"] = identity.ID

	status, body, err := h.store.CreateIn(c.Request.Context(), "properties", payload)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create property", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Data(status, "application/json", body)
}
