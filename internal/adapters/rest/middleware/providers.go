package middleware

import "github.com/google/wire"

// ProviderSet is the wire provider set for HTTP middleware
var ProviderSet = wire.NewSet(
	NewTokenAuth,
)
