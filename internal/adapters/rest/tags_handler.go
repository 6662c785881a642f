package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/taxonomy/application"
)

// TagsHandler handles HTTP requests for tags
type TagsHandler struct {
	*BaseHandler
	service *application.TagsService
}

// NewTagsHandler creates a new tags handler
func NewTagsHandler(base *BaseHandler, service *application.TagsService) *TagsHandler {
	return &TagsHandler{
		BaseHandler: base,
		service:     service,
	}
}

type createTagRequest struct {
	Name string `json:"name"`
}

type updateTagRequest struct {
	Name *string `json:"name"`
}

// ListTags returns all tags
// NOTE: Auth middleware guarantees an authenticated user
func (h *TagsHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = tagToAPI(t)
	}
	h.WriteJSONResponse(w, r, "tags retrieved", out, http.StatusOK)
}

// GetTag retrieves a tag by ID
// NOTE: Auth middleware guarantees an authenticated user
func (h *TagsHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "tag id")
	if !ok {
		return
	}

	tag, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "tag retrieved", tagToAPI(tag), http.StatusOK)
}

// CreateTag creates a new tag
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *TagsHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req createTagRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tag, err := h.service.CreateTag(r.Context(), actor, req.Name)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "tag created", tagToAPI(tag), http.StatusCreated)
}

// UpdateTag renames a tag
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *TagsHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "tag id")
	if !ok {
		return
	}

	var req updateTagRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tag, err := h.service.UpdateTag(r.Context(), actor, id, req.Name)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "tag updated", tagToAPI(tag), http.StatusOK)
}

// DeleteTag removes a tag and detaches it from all posts
// NOTE: Auth middleware guarantees an authenticated user; the service
// restricts the operation to admins
func (h *TagsHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "tag id")
	if !ok {
		return
	}

	if err := h.service.DeleteTag(r.Context(), actor, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "tag deleted", nil, http.StatusOK)
}
