package httpapi

import (
	"net/http"

	"gerai-be/internal/catalog"
)

// CatalogHandler serves the public product and category listings out of
// the in-memory catalog snapshot, so browsing never hits the database
// on the request path.
type CatalogHandler struct {
	store *catalog.Store
}

func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	slug := r.URL.Query().Get("category")

	products := catalog.Filter(h.store.Products(), q, slug)
	respondJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"loading":  h.store.Loading(),
	})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"categories": h.store.Categories(),
	})
}
