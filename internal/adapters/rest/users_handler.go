package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/users/application"
	"github.com/inkwell-blog/backend/internal/users/domain"
)

// UsersHandler handles HTTP requests for user management
type UsersHandler struct {
	*BaseHandler
	service *application.UserService
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(base *BaseHandler, service *application.UserService) *UsersHandler {
	return &UsersHandler{
		BaseHandler: base,
		service:     service,
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers returns all users, newest first
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	limit, offset := parsePagination(r)

	users, err := h.service.ListUsers(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "users retrieved", usersToAPI(users), http.StatusOK)
}

// CreateUser creates an account with an explicit role
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req createUserRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), actor, application.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "user created", userToAPI(user), http.StatusCreated)
}

// GetUser retrieves a user by ID
// NOTE: Auth middleware guarantees an authenticated user; visible to the
// user themselves and admins
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "user id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), actor, id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "user retrieved", userToAPI(user), http.StatusOK)
}

// UpdateUser applies a partial update to a user's profile
// NOTE: Auth middleware guarantees an authenticated user; allowed for the
// user themselves and admins
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "user id")
	if !ok {
		return
	}

	var req updateUserRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actor, id, application.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "user updated", userToAPI(user), http.StatusOK)
}

// UpdateUserRole assigns a new role to another user
// NOTE: Auth middleware guarantees an authenticated user; admins only, and
// never against their own account
func (h *UsersHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "user id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), actor, id, domain.Role(req.Role))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "user role updated", userToAPI(user), http.StatusOK)
}

// DeleteUser removes a user
// NOTE: Auth middleware guarantees an authenticated user; admins only, and
// never their own account
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "user id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "user deleted", nil, http.StatusOK)
}
