package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/service/analytics"
	"mold-tracker/internal/storage"
)

type MoldProvider interface {
	GetAllMolds(ctx context.Context) ([]storage.Mold, error)
	GetMold(ctx context.Context, id string) (*storage.Mold, error)
}

// GetAllMolds lists molds by priority rank, unranked ones last.
func GetAllMolds(log *slog.Logger, provider MoldProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.GetAllMolds"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		molds, err := provider.GetAllMolds(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, analytics.ByPriority(molds))
	}
}

func GetMold(log *slog.Logger, provider MoldProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.GetMold"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		mold, err := provider.GetMold(ctx, id)
		if err != nil {
			respond.Error(w, log.With(slog.String("mold_id", id)), op, err)
			return
		}

		render.JSON(w, r, mold)
	}
}
