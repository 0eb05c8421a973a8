package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/memorizabiblia/memoriza-api/pkg/response"
)

type Handler struct {
	service AuthService
}

func NewHandler(service AuthService) Handler {
	return Handler{service: service}
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			response.Error(w, http.StatusConflict, "User already exists", err.Error())
			return
		}
		response.Error(w, http.StatusBadRequest, "Failed to register", err.Error())
		return
	}

	response.Success(w, user, "successfully")
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid email or password", "")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to login", err.Error())
		return
	}

	response.Success(w, user, "successfully")
}

func (h *Handler) GetUserDetailsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	user, err := h.service.GetUser(r.Context(), accountID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get user", err.Error())
		return
	}

	response.Success(w, user, "successfully")
}

func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetAccountIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := h.service.UpdateProfile(r.Context(), accountID, req); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to update profile", err.Error())
		return
	}

	response.Success(w, "Ok", "successfully")
}
