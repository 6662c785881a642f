package postgres

import (
	"github.com/google/wire"

	authports "github.com/inkwell-blog/backend/internal/auth/ports"
	commentsports "github.com/inkwell-blog/backend/internal/comments/ports"
	"github.com/inkwell-blog/backend/internal/platform/postgres"
	postsports "github.com/inkwell-blog/backend/internal/posts/ports"
	taxonomyports "github.com/inkwell-blog/backend/internal/taxonomy/ports"
	usersports "github.com/inkwell-blog/backend/internal/users/ports"
)

// ProviderSet is the wire provider set for postgres repositories. The
// repositories double as the cross-module checker ports, so the same
// instances are bound to those too.
var ProviderSet = wire.NewSet(
	postgres.NewTransactionManager,

	NewUserRepository,
	wire.Bind(new(usersports.UserRepository), new(*UserRepository)),

	NewPostRepository,
	wire.Bind(new(postsports.PostRepository), new(*PostRepository)),
	wire.Bind(new(commentsports.PostChecker), new(*PostRepository)),

	NewCategoryRepository,
	wire.Bind(new(taxonomyports.CategoryRepository), new(*CategoryRepository)),
	wire.Bind(new(postsports.CategoryChecker), new(*CategoryRepository)),

	NewTagRepository,
	wire.Bind(new(taxonomyports.TagRepository), new(*TagRepository)),
	wire.Bind(new(postsports.TagChecker), new(*TagRepository)),

	NewCommentRepository,
	wire.Bind(new(commentsports.CommentRepository), new(*CommentRepository)),

	NewTokenRepository,
	wire.Bind(new(authports.TokenRepository), new(*TokenRepository)),
)
