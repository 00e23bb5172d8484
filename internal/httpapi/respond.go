// Package httpapi carries the REST surface: the storefront and
// back-office JSON endpoints plus the share-page and SPA fallbacks.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gerai-be/internal/cart"
	"gerai-be/internal/category"
	"gerai-be/internal/logger"
	"gerai-be/internal/order"
	"gerai-be/internal/product"
	"gerai-be/internal/user"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the domain error vocabulary onto HTTP codes.
// Unknown errors become an opaque 500 so internals never leak.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrUserNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, user.ErrForbidden):
		respondError(w, http.StatusForbidden, "insufficient role")
	case errors.Is(err, user.ErrProfileNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrEmptyUpdate),
		errors.Is(err, cart.ErrMissingProduct),
		errors.Is(err, cart.ErrProductUnavailable),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrMissingAddress),
		errors.Is(err, order.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logger.FromCtx(r.Context()).Error("unhandled service error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
