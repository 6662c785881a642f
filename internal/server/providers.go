package server

import (
	"github.com/inkwell-blog/backend/internal/platform/eventbus"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	"github.com/inkwell-blog/backend/internal/platform/ownership"
	"github.com/inkwell-blog/backend/internal/platform/password"
	postsapp "github.com/inkwell-blog/backend/internal/posts/application"
)

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideBcryptHasher creates the password hasher from config
func provideBcryptHasher(config Config) *password.BcryptHasher {
	return password.NewBcryptHasher(config.BcryptCost)
}

// provideOwnershipRegistry builds the ownership registry with every
// commentable kind registered. Posts are the only one wired today.
func provideOwnershipRegistry(posts *postsapp.PostsOwnershipChecker) *ownership.DefaultRegistry {
	registry := ownership.NewRegistry()
	registry.RegisterChecker("posts", posts)
	return registry
}

// provideEventBus creates the in-process event bus with the activity log
// subscribers attached
func provideEventBus(log logger.Logger) *eventbus.Bus {
	bus := eventbus.NewBus(log)
	registerActivityLog(bus, log)
	return bus
}
