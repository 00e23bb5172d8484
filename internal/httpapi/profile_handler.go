package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gerai-be/internal/user"
	"gerai-be/internal/utils"
)

// ProfileHandler serves the session-restore lookups. Profile reads go
// through the elevated repository since row policies hide other users'
// rows from the request-scoped credential.
type ProfileHandler struct {
	users user.Service
}

func NewProfileHandler(users user.Service) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != callerID {
		if _, err := h.users.RequireAdmin(r.Context(), callerID); err != nil {
			respondServiceError(w, r, err)
			return
		}
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
