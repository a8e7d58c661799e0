package layout

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/storage"
)

type LayoutProvider interface {
	GetLayout(ctx context.Context) (*storage.WorkshopLayout, error)
}

type LayoutSaver interface {
	SaveLayout(ctx context.Context, layout storage.WorkshopLayout) (*storage.WorkshopLayout, error)
}

func GetLayout(log *slog.Logger, provider LayoutProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.layout.GetLayout"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		layout, err := provider.GetLayout(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, layout)
	}
}

func SaveLayout(log *slog.Logger, saver LayoutSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.layout.SaveLayout"

		var req storage.WorkshopLayout
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		layout, err := saver.SaveLayout(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, layout)
	}
}
