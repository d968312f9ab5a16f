package middleware

import (
	"context"
	"net/http"

	"github.com/okhotnik/minesweeper-agent/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth attaches player claims from the token cookie to the request
// context. Requests without a valid token pass through anonymously
// with the stale cookie cleared.
func Auth(cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
