package httpapi

import (
	"encoding/json"
	"net/http"

	"gerai-be/internal/notification"
	"gerai-be/internal/utils"
)

type NotificationHandler struct {
	notifications notification.Service
}

func NewNotificationHandler(notifications notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) OrderCreated(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		OrderNumber string `json:"orderNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderNumber == "" {
		respondError(w, http.StatusBadRequest, "orderNumber is required")
		return
	}

	result, err := h.notifications.OrderCreated(r.Context(), req.OrderNumber)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
