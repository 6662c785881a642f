package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/taxonomy/application"
)

// CategoriesHandler handles HTTP requests for categories
type CategoriesHandler struct {
	*BaseHandler
	service *application.CategoriesService
}

// NewCategoriesHandler creates a new categories handler
func NewCategoriesHandler(base *BaseHandler, service *application.CategoriesService) *CategoriesHandler {
	return &CategoriesHandler{
		BaseHandler: base,
		service:     service,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type updateCategoryRequest struct {
	Name *string `json:"name"`
}

// ListCategories returns all categories with their posts
// NOTE: Auth middleware guarantees an authenticated user
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	out := make([]CategoryDetailResponse, len(details))
	for i, d := range details {
		out[i] = categoryDetailToAPI(d)
	}
	h.WriteJSONResponse(w, r, "categories retrieved", out, http.StatusOK)
}

// GetCategory retrieves a category with its posts
// NOTE: Auth middleware guarantees an authenticated user
func (h *CategoriesHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "category id")
	if !ok {
		return
	}

	detail, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "category retrieved", categoryDetailToAPI(detail), http.StatusOK)
}

// CreateCategory creates a new category
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *CategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req createCategoryRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), actor, req.Name)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "category created", categoryToAPI(category), http.StatusCreated)
}

// UpdateCategory renames a category
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *CategoriesHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "category id")
	if !ok {
		return
	}

	var req updateCategoryRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), actor, id, req.Name)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "category updated", categoryToAPI(category), http.StatusOK)
}

// DeleteCategory removes a category. Categories with posts attached refuse.
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *CategoriesHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "category id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), actor, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "category deleted", nil, http.StatusOK)
}
