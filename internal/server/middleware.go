package server

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const ctxKeyPrincipal ctxKey = iota

// requireAuth resolves the Bearer token to a principal and stores it in the
// request context. Requests without a valid session are rejected.
func requireAuth(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(auth, "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			p, err := store.PrincipalFromToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPrincipal, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principalFrom(r *http.Request) principal {
	return r.Context().Value(ctxKeyPrincipal).(principal)
}

// bearerToken returns the raw session token, for logout.
func bearerToken(r *http.Request) string {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token
}
