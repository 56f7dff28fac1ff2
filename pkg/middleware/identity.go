package middleware

import (
	"context"
	"net/http"

	"reservio/pkg/model"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

const principalKey contextKey = "principal"

// Identity reads the caller identity headers and stores the resulting
// principal on the request context. Requests without X-User-ID proceed
// with an empty principal; handlers that require an identity reject
// them. An unknown role is downgraded to member.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := model.Principal{
				ID:   r.Header.Get(userIDHeader),
				Role: model.ParseRole(r.Header.Get(userRoleHeader)),
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the principal set by Identity, or a zero
// principal if the middleware did not run.
func PrincipalFromContext(ctx context.Context) model.Principal {
	if v := ctx.Value(principalKey); v != nil {
		if p, ok := v.(model.Principal); ok {
			return p
		}
	}
	return model.Principal{}
}
