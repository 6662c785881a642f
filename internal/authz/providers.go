package authz

import "github.com/google/wire"

// ProviderSet is the wire provider set for the authorization engine
var ProviderSet = wire.NewSet(NewEngine)
