package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gerai-be/internal/cart"
	"gerai-be/internal/utils"
)

type CartHandler struct {
	carts cart.Service
}

func NewCartHandler(carts cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	items, totals, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []cart.Item{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"totals": totals,
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Guest adds are accepted and dropped; the service logs them.
	if err := h.carts.AddToCart(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	if err := h.carts.RemoveFromCart(r.Context(), userID, productID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.carts.ClearCart(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	favorites, err := h.carts.GetFavorites(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if favorites == nil {
		favorites = []cart.FavoriteProduct{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"favorites": favorites})
}

func (h *CartHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	favorited, err := h.carts.ToggleFavorite(r.Context(), userID, productID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}
