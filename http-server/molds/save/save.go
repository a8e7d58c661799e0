package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/storage"
)

type MoldCreator interface {
	CreateMold(ctx context.Context, mold storage.Mold) (*storage.Mold, error)
}

func SaveMold(log *slog.Logger, creator MoldCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.SaveMold"

		var req storage.Mold
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		mold, err := creator.CreateMold(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("mold created", slog.String("op", op), slog.String("mold_id", mold.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, mold)
	}
}
