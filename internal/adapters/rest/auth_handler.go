package rest

import (
	"net/http"

	"github.com/inkwell-blog/backend/internal/auth/application"
)

// AuthHandler handles registration, login, logout, and the current-user view
type AuthHandler struct {
	*BaseHandler
	service *application.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base *BaseHandler, service *application.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an author account and returns its first token
// NOTE: Public endpoint
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.service.Register(r.Context(), application.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := AuthResponse{User: userToAPI(user), Token: token}
	h.WriteJSONResponse(w, r, "registered successfully", response, http.StatusCreated)
}

// Login verifies credentials and returns a fresh token
// NOTE: Public endpoint
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := AuthResponse{User: userToAPI(user), Token: token}
	h.WriteJSONResponse(w, r, "logged in successfully", response, http.StatusOK)
}

// Logout revokes every token the user holds, across all devices
// NOTE: Auth middleware guarantees an authenticated user
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	if err := h.service.Logout(r.Context(), userID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "logged out successfully", nil, http.StatusOK)
}

// Me returns the account behind the presented token
// NOTE: Auth middleware guarantees an authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "current user", userToAPI(user), http.StatusOK)
}
