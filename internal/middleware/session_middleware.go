package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

type contextKey string

// UsernameKey carries the session identity when one is present. The API
// remains callable without a session; handlers that care inspect the context.
const UsernameKey contextKey = "username"

// SessionIdentity attaches the logged-in username from the auth session to
// the request context. It never blocks a request.
func SessionIdentity(store *sessions.CookieStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, "auth-session")
		if err == nil {
			if username, ok := session.Values["username"].(string); ok && username != "" {
				r = r.WithContext(context.WithValue(r.Context(), UsernameKey, username))
			}
		}
		next.ServeHTTP(w, r)
	})
}
