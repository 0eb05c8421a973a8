package reminder

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/memorizabiblia/memoriza-api/internal/auth"
	"github.com/memorizabiblia/memoriza-api/pkg/response"
)

// TargetRegistry is the storage side of target registration.
type TargetRegistry interface {
	AddReminderTarget(ctx context.Context, accountID, target string) error
	DeleteReminderTarget(ctx context.Context, accountID, target string) error
}

type Handler struct {
	registry TargetRegistry
}

func NewHandler(registry TargetRegistry) Handler {
	return Handler{registry: registry}
}

type targetRequest struct {
	Target string `json:"target"`
}

// RegisterTargetHandler subscribes a delivery target (email address or push
// endpoint) to the account's daily reminder.
func (h *Handler) RegisterTargetHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.GetAccountIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.Target == "" {
		response.Error(w, http.StatusBadRequest, "Missing target", "target is required")
		return
	}

	if err := h.registry.AddReminderTarget(r.Context(), accountID, req.Target); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to register target", err.Error())
		return
	}
	response.Success(w, "Ok", "successfully")
}

// UnregisterTargetHandler removes a delivery target.
func (h *Handler) UnregisterTargetHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.GetAccountIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.Target == "" {
		response.Error(w, http.StatusBadRequest, "Missing target", "target is required")
		return
	}

	if err := h.registry.DeleteReminderTarget(r.Context(), accountID, req.Target); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to remove target", err.Error())
		return
	}
	response.Success(w, "Ok", "successfully")
}
