//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"

	postgresadapters "github.com/inkwell-blog/backend/internal/adapters/postgres"
	"github.com/inkwell-blog/backend/internal/adapters/rest"
	"github.com/inkwell-blog/backend/internal/adapters/rest/middleware"
	authapp "github.com/inkwell-blog/backend/internal/auth/application"
	"github.com/inkwell-blog/backend/internal/authz"
	commentsapp "github.com/inkwell-blog/backend/internal/comments/application"
	commentsports "github.com/inkwell-blog/backend/internal/comments/ports"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	"github.com/inkwell-blog/backend/internal/platform/ownership"
	"github.com/inkwell-blog/backend/internal/platform/password"
	postsapp "github.com/inkwell-blog/backend/internal/posts/application"
	postsports "github.com/inkwell-blog/backend/internal/posts/ports"
	taxonomyapp "github.com/inkwell-blog/backend/internal/taxonomy/application"
	taxonomyports "github.com/inkwell-blog/backend/internal/taxonomy/ports"
	usersapp "github.com/inkwell-blog/backend/internal/users/application"
	usersports "github.com/inkwell-blog/backend/internal/users/ports"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadConfig,

		// Logger configuration
		provideLoggerConfig,

		// Main logger
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		// Database
		ConnectDatabase,

		// Repository providers (includes interface bindings)
		postgresadapters.ProviderSet,

		// Platform services
		provideEventBus,
		provideOwnershipRegistry,
		wire.Bind(new(ownership.Registry), new(*ownership.DefaultRegistry)),
		provideBcryptHasher,
		wire.Bind(new(usersports.PasswordHasher), new(*password.BcryptHasher)),

		// Authorization engine, bound to every module's authorizer port
		authz.NewEngine,
		wire.Bind(new(usersports.Authorizer), new(*authz.Engine)),
		wire.Bind(new(postsports.Authorizer), new(*authz.Engine)),
		wire.Bind(new(taxonomyports.Authorizer), new(*authz.Engine)),
		wire.Bind(new(commentsports.Authorizer), new(*authz.Engine)),

		// Application services
		usersapp.ProviderSet,
		postsapp.ProviderSet,
		taxonomyapp.ProviderSet,
		commentsapp.ProviderSet,
		authapp.ProviderSet,
		wire.Bind(new(middleware.Authenticator), new(*authapp.AuthService)),

		// REST handlers and middleware
		rest.ProviderSet,
		middleware.ProviderSet,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}
