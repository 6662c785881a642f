package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/posts/application"
	"github.com/inkwell-blog/backend/internal/posts/domain"
	"github.com/inkwell-blog/backend/internal/posts/ports"
)

const defaultPageSize = 20

// PostsHandler handles HTTP requests for posts
type PostsHandler struct {
	*BaseHandler
	service *application.PostsService
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(base *BaseHandler, service *application.PostsService) *PostsHandler {
	return &PostsHandler{
		BaseHandler: base,
		service:     service,
	}
}

type createPostRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	CategoryID  uuid.UUID   `json:"category_id"`
	Status      string      `json:"status"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

type updatePostRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	CategoryID  *uuid.UUID   `json:"category_id"`
	Status      *string      `json:"status"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

type attachTagsRequest struct {
	TagIDs []uuid.UUID `json:"tag_ids"`
}

// ListPosts returns a paginated list of posts matching the search filter
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := buildSearchFilter(r)

	details, total, err := h.service.SearchPosts(r.Context(), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := buildPaginatedPostsResponse(details, total, filter)
	h.WriteJSONResponse(w, r, "posts retrieved", response, http.StatusOK)
}

// GetPostBySlug retrieves a post with its relations by slug
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.service.GetPostBySlug(r.Context(), middleware.GetActor(r.Context()), slug)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "post retrieved", postDetailToAPI(detail), http.StatusOK)
}

// CreatePost creates a new post authored by the acting user. The author is
// always the actor; the request cannot assign someone else.
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req createPostRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	status := domain.PostStatus(req.Status)
	if req.Status == "" {
		status = domain.PostStatusDraft
	}

	detail, err := h.service.CreatePost(r.Context(), actor, application.CreatePostParams{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Status:      status,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "post created", postDetailToAPI(detail), http.StatusCreated)
}

// UpdatePost applies a partial update to a post
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "post id")
	if !ok {
		return
	}

	var req updatePostRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	params := application.UpdatePostParams{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	}
	if req.Status != nil {
		status := domain.PostStatus(*req.Status)
		params.Status = &status
	}

	detail, err := h.service.UpdatePost(r.Context(), actor, id, params)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "post updated", postDetailToAPI(detail), http.StatusOK)
}

// AttachTags replaces the post's tag set. An empty list detaches every tag.
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) AttachTags(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "post id")
	if !ok {
		return
	}

	var req attachTagsRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.AttachTags(r.Context(), actor, id, req.TagIDs)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "tags attached", postDetailToAPI(detail), http.StatusOK)
}

// DeletePost removes a post together with its comments and tag associations
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	id, ok := h.ParseUUID(w, r, chi.URLParam(r, "id"), "post id")
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), actor, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "post deleted", nil, http.StatusOK)
}

// ListMyPosts returns the acting user's own posts, newest first
// NOTE: Auth middleware guarantees an authenticated user
func (h *PostsHandler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	limit, offset := parsePagination(r)

	details, err := h.service.ListMyPosts(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, "posts retrieved", postDetailsToAPI(details), http.StatusOK)
}

// Helper functions

// buildSearchFilter maps query parameters onto the repository filter.
// All populated criteria are combined with AND.
func buildSearchFilter(r *http.Request) ports.SearchFilter {
	q := r.URL.Query()
	filter := ports.SearchFilter{
		Title:        q.Get("title"),
		CategoryName: q.Get("category"),
		AuthorName:   q.Get("author"),
		TagName:      q.Get("tag"),
	}
	filter.Limit, filter.Offset = parsePagination(r)
	return filter
}

// parsePagination reads page-based query params and converts to limit/offset
func parsePagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()

	limit = defaultPageSize
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	if raw := q.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 1 {
			offset = (page - 1) * limit
		}
	}
	return limit, offset
}

func buildPaginatedPostsResponse(details []*ports.PostDetail, total int, filter ports.SearchFilter) PaginatedPosts {
	itemsPerPage := filter.Limit
	if itemsPerPage <= 0 {
		itemsPerPage = defaultPageSize
	}
	currentPage := (filter.Offset / itemsPerPage) + 1
	totalPages := (total + itemsPerPage - 1) / itemsPerPage

	return PaginatedPosts{
		Items: postDetailsToAPI(details),
		Meta: PaginationMeta{
			TotalItems:   total,
			ItemsPerPage: itemsPerPage,
			CurrentPage:  currentPage,
			TotalPages:   totalPages,
		},
	}
}
