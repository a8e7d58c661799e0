package auth

import (
	"context"
	"net/http"
	"strings"

	"mold-tracker/internal/access"
	"mold-tracker/internal/storage"
)

type ctxKey struct{}

type SessionGetter interface {
	Get(token string) (storage.Session, bool)
}

// RequireSession resolves the bearer token into a session. EventSource
// clients cannot set headers, so a "token" query parameter is accepted too.
func RequireSession(sessions SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				requireAuth(w)
				return
			}

			sess, ok := sessions.Get(token)
			if !ok {
				requireAuth(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireView lets the request through only when the session role may open
// view. It must run after RequireSession.
func RequireView(view access.View) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := FromContext(r.Context())
			if !ok {
				requireAuth(w)
				return
			}

			if !access.Can(sess.Role, view) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func Token(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return r.URL.Query().Get("token")
}

func WithSession(ctx context.Context, sess storage.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

func FromContext(ctx context.Context) (storage.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(storage.Session)
	return sess, ok
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="mold-tracker"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
