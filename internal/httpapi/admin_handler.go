package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gerai-be/internal/admin"
	"gerai-be/internal/admincache"
	"gerai-be/internal/category"
	"gerai-be/internal/order"
	"gerai-be/internal/product"
	"gerai-be/internal/user"
	"gerai-be/internal/utils"
)

const (
	cacheKeyUsers  = "users:all"
	cacheKeyOrders = "orders:all"
	cacheKeyStats  = "stats:dashboard"

	adminCacheTTL = 30 * time.Second
)

// AdminHandler serves the back-office endpoints. Every route re-checks
// the caller's role against the elevated profile table; the role claim
// inside the token is display-only and never trusted here.
type AdminHandler struct {
	users      user.Service
	orders     order.Service
	stats      admin.StatsService
	products   product.Service
	categories category.Repository

	usersFetcher  *admincache.Fetcher
	ordersFetcher *admincache.Fetcher
	statsFetcher  *admincache.Fetcher
}

func NewAdminHandler(
	users user.Service,
	orders order.Service,
	stats admin.StatsService,
	products product.Service,
	categories category.Repository,
	cache *admincache.Cache,
) *AdminHandler {
	h := &AdminHandler{users: users, orders: orders, stats: stats, products: products, categories: categories}
	h.usersFetcher = admincache.NewFetcher(cache, cacheKeyUsers, adminCacheTTL, func(ctx context.Context) (any, error) {
		return users.ListUsers(ctx)
	})
	h.ordersFetcher = admincache.NewFetcher(cache, cacheKeyOrders, adminCacheTTL, func(ctx context.Context) (any, error) {
		return orders.ListAll(ctx)
	})
	h.statsFetcher = admincache.NewFetcher(cache, cacheKeyStats, adminCacheTTL, func(ctx context.Context) (any, error) {
		return stats.Collect(ctx), nil
	})
	return h
}

// requireAdmin gates a request on a server-side role check. A token
// whose subject has no profile row gets 401, not 404: the caller is
// unknown, not the resource.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, userID string) (*user.Profile, error)) bool {
	callerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return false
	}
	if _, err := check(r.Context(), callerID); err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			respondError(w, http.StatusUnauthorized, "unknown caller")
			return false
		}
		respondServiceError(w, r, err)
		return false
	}
	return true
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}
	list, err := h.usersFetcher.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) UpdateWhatsApp(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireSuperAdmin) {
		return
	}

	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		respondError(w, http.StatusBadRequest, "enabled must be a boolean")
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.users.SetWhatsAppEnabled(r.Context(), userID, *req.Enabled); err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.usersFetcher.Invalidate()
	respondJSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}
	list, err := h.ordersFetcher.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}
	stats, err := h.statsFetcher.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, h.users.RequireAdmin) {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	o, err := h.orders.ChangeStatus(r.Context(), orderID, order.Status(req.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.ordersFetcher.Invalidate()
	respondJSON(w, http.StatusOK, o)
}
