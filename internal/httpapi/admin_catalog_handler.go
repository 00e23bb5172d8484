package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gerai-be/internal/category"
	"gerai-be/internal/product"
)

// Catalog management: admins curate products and categories. Writes go
// through the regular repositories; the catalog store picks the change
// up from the feed, so no explicit cache bust is needed here.

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}

	var input product.NewProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.products.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}

	var input product.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	productID := chi.URLParam(r, "productID")
	p, err := h.products.Update(r.Context(), productID, input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.products.Delete(r.Context(), productID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}

	var input category.NewCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := h.categories.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *AdminHandler) SetCategoryActive(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		respondError(w, http.StatusBadRequest, "active must be a boolean")
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	if err := h.categories.SetActive(r.Context(), categoryID, *req.Active); err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"active": *req.Active})
}
