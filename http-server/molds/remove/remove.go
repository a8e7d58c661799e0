package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
)

type MoldDeleter interface {
	DeleteMold(ctx context.Context, moldID string) error
}

// DeleteMold removes a mold together with its notes.
func DeleteMold(log *slog.Logger, deleter MoldDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.DeleteMold"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.DeleteMold(ctx, id); err != nil {
			respond.Error(w, log.With(slog.String("mold_id", id)), op, err)
			return
		}

		log.Info("mold deleted", slog.String("op", op), slog.String("mold_id", id))

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
