package transport

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/timesheet/internal/domain/user"
	"github.com/rpggio/timesheet/internal/initdata"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// InitDataScheme is the Authorization scheme carrying mini-app init data.
const InitDataScheme = "tma"

type identityKey struct{}

// IdentityResolver resolves the calling user from init data.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, initData string) (user.Identity, error)
}

// InitDataResolver validates signed init data.
type InitDataResolver struct {
	Validator *initdata.Validator
}

// ResolveIdentity implements IdentityResolver.
func (r InitDataResolver) ResolveIdentity(_ context.Context, raw string) (user.Identity, error) {
	data, err := r.Validator.Validate(raw)
	if err != nil {
		return user.Identity{}, err
	}
	return data.User, nil
}

// IdentityFromContext returns the caller identity from context, if present.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(user.Identity)
	return id, ok
}

// AuthMiddleware enforces "Authorization: tma <init data>" authentication.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, credential, _ := strings.Cut(r.Header.Get("Authorization"), " ")
			credential = strings.TrimSpace(credential)
			if !strings.EqualFold(scheme, InitDataScheme) || credential == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing init data")
				return
			}

			identity, err := resolver.ResolveIdentity(r.Context(), credential)
			if err != nil || identity.ID == 0 {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid init data")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerMiddleware enforces a static bearer token. An empty token rejects
// every request.
func BearerMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if token == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
