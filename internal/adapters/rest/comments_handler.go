package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/comments/application"
)

// CommentsHandler handles HTTP requests for comments
type CommentsHandler struct {
	*BaseHandler
	service *application.CommentsService
}

// NewCommentsHandler creates a new comments handler
func NewCommentsHandler(base *BaseHandler, service *application.CommentsService) *CommentsHandler {
	return &CommentsHandler{
		BaseHandler: base,
		service:     service,
	}
}

type commentContentRequest struct {
	Content string `json:"content"`
}

// AddToPost creates a comment under the given post. The target is pinned by
// the route; the body carries only the content.
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) AddToPost(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	postID, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "post id")
	if !ok {
		return
	}

	var req commentContentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.AddToPost(r.Context(), actor, postID, req.Content)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comment created", commentToAPI(detail), http.StatusCreated)
}

// ListForPost returns the comments under one post, oldest first
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "post id")
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	details, err := h.service.ListForPost(r.Context(), postID, limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comments retrieved", commentsToAPI(details), http.StatusOK)
}

// ListComments returns comments across all targets, newest first
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	details, err := h.service.ListComments(r.Context(), limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comments retrieved", commentsToAPI(details), http.StatusOK)
}

// GetComment retrieves a single comment
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "comment id")
	if !ok {
		return
	}

	detail, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comment retrieved", commentToAPI(detail), http.StatusOK)
}

// UpdateComment edits a comment's content. Only the comment's author and
// admins may edit.
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "comment id")
	if !ok {
		return
	}

	var req commentContentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.UpdateComment(r.Context(), actor, id, req.Content)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comment updated", commentToAPI(detail), http.StatusOK)
}

// DeleteComment removes a comment. The comment's author, the owner of the
// commented post, and admins may delete.
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "comment id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), actor, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comment deleted", nil, http.StatusOK)
}

// ListMyComments returns the acting user's own comments, newest first
// NOTE: Auth middleware guarantees an authenticated user
func (h *CommentsHandler) ListMyComments(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	limit, offset := parsePagination(r)

	details, err := h.service.ListMyComments(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "comments retrieved", commentsToAPI(details), http.StatusOK)
}
