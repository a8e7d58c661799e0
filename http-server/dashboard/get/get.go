package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/middleware/auth"
	"mold-tracker/internal/service/analytics"
	"mold-tracker/internal/storage"
)

type MoldsProvider interface {
	GetAllMolds(ctx context.Context) ([]storage.Mold, error)
}

type queueFunc func(r *http.Request, molds []storage.Mold) []analytics.OperationRef

func queue(log *slog.Logger, provider MoldsProvider, op string, build queueFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		molds, err := provider.GetAllMolds(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, build(r, molds))
	}
}

// ActiveTasks lists the operations currently in progress.
func ActiveTasks(log *slog.Logger, provider MoldsProvider) http.HandlerFunc {
	return queue(log, provider, "handlers.dashboard.ActiveTasks", func(_ *http.Request, molds []storage.Mold) []analytics.OperationRef {
		return analytics.ActiveOperations(molds)
	})
}

// CamQueue lists open work of ?operator=, defaulting to the caller.
func CamQueue(log *slog.Logger, provider MoldsProvider) http.HandlerFunc {
	return queue(log, provider, "handlers.dashboard.CamQueue", func(r *http.Request, molds []storage.Mold) []analytics.OperationRef {
		operator := r.URL.Query().Get("operator")
		if operator == "" {
			if sess, ok := auth.FromContext(r.Context()); ok {
				operator = sess.Name
			}
		}
		return analytics.CamQueue(molds, operator)
	})
}

func ReviewQueue(log *slog.Logger, provider MoldsProvider) http.HandlerFunc {
	return queue(log, provider, "handlers.dashboard.ReviewQueue", func(_ *http.Request, molds []storage.Mold) []analytics.OperationRef {
		return analytics.ReviewQueue(molds)
	})
}

func History(log *slog.Logger, provider MoldsProvider) http.HandlerFunc {
	return queue(log, provider, "handlers.dashboard.History", func(_ *http.Request, molds []storage.Mold) []analytics.OperationRef {
		return analytics.History(molds)
	})
}
