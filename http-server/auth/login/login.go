package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"mold-tracker/internal/access"
	"mold-tracker/internal/middleware/auth"
	"mold-tracker/internal/session"
	"mold-tracker/internal/storage"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (storage.Session, error)
	Logout(ctx context.Context, token string) error
}

type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Response struct {
	Token    string              `json:"token,omitempty"`
	PersonID string              `json:"personId"`
	Name     string              `json:"name"`
	Role     storage.Role        `json:"role"`
	Views    []access.View       `json:"views"`
	Edits    []access.FieldGroup `json:"edits"`
}

func newResponse(sess storage.Session) Response {
	return Response{
		Token:    sess.Token,
		PersonID: sess.PersonID,
		Name:     sess.Name,
		Role:     sess.Role,
		Views:    access.ViewsFor(sess.Role),
		Edits:    access.EditsFor(sess.Role),
	}
}

func Login(log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := authenticator.Login(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				log.With(slog.String("op", op), slog.String("username", req.Username)).Warn("login rejected")
				http.Error(w, "Invalid username or password", http.StatusUnauthorized)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("login failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, newResponse(sess))
	}
}

func Logout(log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Logout"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := authenticator.Logout(ctx, auth.Token(r)); err != nil {
			if errors.Is(err, session.ErrUnknownSession) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("logout failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "logged out"})
	}
}

// Me returns the current session without its token.
func Me(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Me"

		sess, ok := auth.FromContext(r.Context())
		if !ok {
			log.With(slog.String("op", op)).Warn("no session in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		resp := newResponse(sess)
		resp.Token = ""
		render.JSON(w, r, resp)
	}
}
