package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/middleware/auth"
	"mold-tracker/internal/service/tracker"
	"mold-tracker/internal/storage"
)

type MoldUpdater interface {
	UpdateMold(ctx context.Context, role storage.Role, moldID string, patch tracker.MoldPatch) (*storage.Mold, error)
	UpdateOperation(ctx context.Context, role storage.Role, moldID, taskID, opID string, patch tracker.OperationPatch) (*storage.Mold, error)
	AppendOperation(ctx context.Context, role storage.Role, moldID, taskID string, operation storage.Operation) (*storage.Mold, error)
}

// The service decides per field group what the role may change.
func sessionRole(w http.ResponseWriter, r *http.Request) (storage.Role, bool) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return sess.Role, true
}

// UpdateMold changes mold-level fields. Tasks in the body are ignored.
func UpdateMold(log *slog.Logger, updater MoldUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.UpdateMold"

		role, ok := sessionRole(w, r)
		if !ok {
			return
		}

		id := chi.URLParam(r, "id")

		var patch tracker.MoldPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		mold, err := updater.UpdateMold(ctx, role, id, patch)
		if err != nil {
			respond.Error(w, log.With(slog.String("mold_id", id)), op, err)
			return
		}

		render.JSON(w, r, mold)
	}
}

func UpdateOperation(log *slog.Logger, updater MoldUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.UpdateOperation"

		role, ok := sessionRole(w, r)
		if !ok {
			return
		}

		moldID := chi.URLParam(r, "id")
		taskID := chi.URLParam(r, "taskId")
		opID := chi.URLParam(r, "opId")

		var patch tracker.OperationPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		mold, err := updater.UpdateOperation(ctx, role, moldID, taskID, opID, patch)
		if err != nil {
			respond.Error(w, log.With(
				slog.String("mold_id", moldID),
				slog.String("task_id", taskID),
				slog.String("operation_id", opID),
			), op, err)
			return
		}

		render.JSON(w, r, mold)
	}
}

func AppendOperation(log *slog.Logger, updater MoldUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.molds.AppendOperation"

		role, ok := sessionRole(w, r)
		if !ok {
			return
		}

		moldID := chi.URLParam(r, "id")
		taskID := chi.URLParam(r, "taskId")

		var operation storage.Operation
		if err := render.DecodeJSON(r.Body, &operation); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		mold, err := updater.AppendOperation(ctx, role, moldID, taskID, operation)
		if err != nil {
			respond.Error(w, log.With(slog.String("mold_id", moldID), slog.String("task_id", taskID)), op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, mold)
	}
}
