package rest

import (
	"time"

	"github.com/google/uuid"

	commentsports "github.com/inkwell-blog/backend/internal/comments/ports"
	postsports "github.com/inkwell-blog/backend/internal/posts/ports"
	taxonomydomain "github.com/inkwell-blog/backend/internal/taxonomy/domain"
	taxonomyports "github.com/inkwell-blog/backend/internal/taxonomy/ports"
	usersdomain "github.com/inkwell-blog/backend/internal/users/domain"
)

// API response types. The password hash never leaves the service boundary.

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TagInfoResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryPostResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryDetailResponse struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Slug      string                 `json:"slug"`
	Posts     []CategoryPostResponse `json:"posts"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type PostResponse struct {
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description"`
	Status       string                `json:"status"`
	AuthorID     uuid.UUID             `json:"author_id"`
	AuthorName   string                `json:"author_name"`
	CategoryID   uuid.UUID             `json:"category_id"`
	CategoryName string                `json:"category_name"`
	Tags         []TagInfoResponse     `json:"tags"`
	Comments     []PostCommentResponse `json:"comments"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type PostCommentResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentResponse struct {
	ID              uuid.UUID `json:"id"`
	Content         string    `json:"content"`
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
	CommentableType string    `json:"commentable_type"`
	CommentableID   uuid.UUID `json:"commentable_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PaginationMeta struct {
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
}

type PaginatedPosts struct {
	Items []PostResponse `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// Conversion helpers

func userToAPI(user *usersdomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func usersToAPI(users []*usersdomain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = userToAPI(u)
	}
	return out
}

func postDetailToAPI(detail *postsports.PostDetail) PostResponse {
	tags := make([]TagInfoResponse, len(detail.Tags))
	for i, t := range detail.Tags {
		tags[i] = TagInfoResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	comments := make([]PostCommentResponse, len(detail.Comments))
	for i, c := range detail.Comments {
		comments[i] = PostCommentResponse{
			ID:        c.ID,
			Content:   c.Content,
			UserID:    c.UserID,
			UserName:  c.UserName,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return PostResponse{
		ID:           detail.ID,
		Title:        detail.Title,
		Slug:         detail.Slug,
		Description:  detail.Description,
		Status:       string(detail.Status),
		AuthorID:     detail.AuthorID,
		AuthorName:   detail.AuthorName,
		CategoryID:   detail.CategoryID,
		CategoryName: detail.CategoryName,
		Tags:         tags,
		Comments:     comments,
		CreatedAt:    detail.CreatedAt,
		UpdatedAt:    detail.UpdatedAt,
	}
}

func postDetailsToAPI(details []*postsports.PostDetail) []PostResponse {
	out := make([]PostResponse, len(details))
	for i, d := range details {
		out[i] = postDetailToAPI(d)
	}
	return out
}

func categoryToAPI(category *taxonomydomain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func categoryDetailToAPI(detail *taxonomyports.CategoryDetail) CategoryDetailResponse {
	posts := make([]CategoryPostResponse, len(detail.Posts))
	for i, p := range detail.Posts {
		posts[i] = CategoryPostResponse{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Status:    p.Status,
			AuthorID:  p.AuthorID,
			CreatedAt: p.CreatedAt,
		}
	}
	return CategoryDetailResponse{
		ID:        detail.ID,
		Name:      detail.Name,
		Slug:      detail.Slug,
		Posts:     posts,
		CreatedAt: detail.CreatedAt,
		UpdatedAt: detail.UpdatedAt,
	}
}

func tagToAPI(tag *taxonomydomain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Slug:      tag.Slug,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

func commentToAPI(detail *commentsports.CommentDetail) CommentResponse {
	return CommentResponse{
		ID:              detail.ID,
		Content:         detail.Content,
		UserID:          detail.UserID,
		UserName:        detail.UserName,
		CommentableType: detail.CommentableType,
		CommentableID:   detail.CommentableID,
		CreatedAt:       detail.CreatedAt,
		UpdatedAt:       detail.UpdatedAt,
	}
}

func commentsToAPI(details []*commentsports.CommentDetail) []CommentResponse {
	out := make([]CommentResponse, len(details))
	for i, d := range details {
		out[i] = commentToAPI(d)
	}
	return out
}
