package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/service/tracker"
	"mold-tracker/internal/storage"
)

type PersonnelWriter interface {
	SavePerson(ctx context.Context, in tracker.PersonInput) (*storage.Person, error)
	DeletePerson(ctx context.Context, id string) error
}

// SavePerson creates or replaces a roster entry. A blank password keeps
// the stored one.
func SavePerson(log *slog.Logger, writer PersonnelWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.personnel.SavePerson"

		var req tracker.PersonInput
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		person, err := writer.SavePerson(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, person)
	}
}

func DeletePerson(log *slog.Logger, writer PersonnelWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.personnel.DeletePerson"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := writer.DeletePerson(ctx, id); err != nil {
			respond.Error(w, log.With(slog.String("person_id", id)), op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
