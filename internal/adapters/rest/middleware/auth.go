package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-blog/backend/internal/authz"
	"github.com/inkwell-blog/backend/internal/platform/logger"
	usersdomain "github.com/inkwell-blog/backend/internal/users/domain"
)

type authContextKey string

const (
	// UserIDKey holds the authenticated user's id in the request context
	UserIDKey authContextKey = "auth_user_id"

	// ActorKey holds the authorization actor in the request context
	ActorKey authContextKey = "auth_actor"
)

// Authenticator resolves a bearer token to the account holding it
type Authenticator interface {
	Authenticate(ctx context.Context, plaintext string) (*usersdomain.User, error)
}

// TokenAuth guards protected endpoints with opaque bearer tokens. Every
// request hits the token store; revocation through logout therefore takes
// effect immediately.
type TokenAuth struct {
	auth   Authenticator
	logger logger.Logger
}

// NewTokenAuth creates the bearer token middleware
func NewTokenAuth(auth Authenticator, logger logger.Logger) *TokenAuth {
	return &TokenAuth{
		auth:   auth,
		logger: logger,
	}
}

// Middleware authenticates the request and stores the actor in the context.
// Requests without a valid token are rejected with 401.
func (m *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plaintext, ok := bearerToken(r)
		if !ok {
			WriteJSONError(w, "UNAUTHENTICATED", "missing or malformed authorization header", http.StatusUnauthorized)
			return
		}

		user, err := m.auth.Authenticate(r.Context(), plaintext)
		if err != nil {
			WriteJSONError(w, "UNAUTHENTICATED", "invalid or expired token", http.StatusUnauthorized)
			return
		}

		actor := authz.Actor{ID: user.ID, Admin: user.IsAdmin()}
		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, ActorKey, actor)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the opaque token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", false
	}
	return token, true
}

// GetUserID extracts the authenticated user id from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// GetActor extracts the authorization actor from the request context.
// Outside the middleware callers get the anonymous zero actor.
func GetActor(ctx context.Context) authz.Actor {
	if actor, ok := ctx.Value(ActorKey).(authz.Actor); ok {
		return actor
	}
	return authz.Actor{}
}
