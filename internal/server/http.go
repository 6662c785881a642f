package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwell-blog/backend/internal/adapters/rest"
	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	"github.com/inkwell-blog/backend/internal/platform/logger"
)

// NewHTTPServer creates and configures the HTTP server with all routes.
// Registration and login are the only public endpoints; everything else,
// reads included, sits behind the bearer token middleware.
func NewHTTPServer(
	config Config,
	authHandler *rest.AuthHandler,
	postsHandler *rest.PostsHandler,
	categoriesHandler *rest.CategoriesHandler,
	tagsHandler *rest.TagsHandler,
	commentsHandler *rest.CommentsHandler,
	usersHandler *rest.UsersHandler,
	tokenAuth *middleware.TokenAuth,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(tokenAuth.Middleware)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/posts", postsHandler.ListPosts)
			r.Get("/posts/slug/{slug}", postsHandler.GetPostBySlug)
			r.Post("/posts", postsHandler.CreatePost)
			r.Patch("/posts/{id}", postsHandler.UpdatePost)
			r.Delete("/posts/{id}", postsHandler.DeletePost)
			r.Put("/posts/{id}/tags", postsHandler.AttachTags)
			r.Get("/posts/{id}/comments", commentsHandler.ListForPost)
			r.Post("/posts/{id}/comments", commentsHandler.AddToPost)

			r.Get("/categories", categoriesHandler.ListCategories)
			r.Get("/categories/{id}", categoriesHandler.GetCategory)
			r.Post("/categories", categoriesHandler.CreateCategory)
			r.Patch("/categories/{id}", categoriesHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoriesHandler.DeleteCategory)

			r.Get("/tags", tagsHandler.ListTags)
			r.Get("/tags/{id}", tagsHandler.GetTag)
			r.Post("/tags", tagsHandler.CreateTag)
			r.Patch("/tags/{id}", tagsHandler.UpdateTag)
			r.Delete("/tags/{id}", tagsHandler.DeleteTag)

			r.Get("/comments", commentsHandler.ListComments)
			r.Get("/comments/{id}", commentsHandler.GetComment)
			r.Patch("/comments/{id}", commentsHandler.UpdateComment)
			r.Delete("/comments/{id}", commentsHandler.DeleteComment)

			r.Get("/my/posts", postsHandler.ListMyPosts)
			r.Get("/my/comments", commentsHandler.ListMyComments)

			r.Get("/users", usersHandler.ListUsers)
			r.Post("/users", usersHandler.CreateUser)
			r.Get("/users/{id}", usersHandler.GetUser)
			r.Patch("/users/{id}", usersHandler.UpdateUser)
			r.Delete("/users/{id}", usersHandler.DeleteUser)
			r.Put("/users/{id}/role", usersHandler.UpdateUserRole)
		})
	})

	// Wrap with observability middleware
	handler := withObservability(r, log)

	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// withObservability adds request logging
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Use chi's response writer wrapper to capture status code and bytes written
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		handler.ServeHTTP(wrr, r)

		duration := time.Since(start)

		// Extract user ID if available for better tracing
		var userID string
		if uid, ok := middleware.GetUserID(r.Context()); ok {
			userID = uid.String()
		}

		log.Info(r.Context(), "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"user_id", userID,
		)
	})
}
