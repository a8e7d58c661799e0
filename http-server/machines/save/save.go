package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/storage"
)

type MachineWriter interface {
	SaveMachine(ctx context.Context, m storage.Machine) (*storage.Machine, error)
	UpdateMachineStatus(ctx context.Context, id string, status storage.MachineStatus, reason string) error
}

func SaveMachine(log *slog.Logger, writer MachineWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.SaveMachine"

		var req storage.Machine
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machine, err := writer.SaveMachine(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, machine)
	}
}

type StatusRequest struct {
	Status storage.MachineStatus `json:"status"`
	Reason string                `json:"reason"`
}

// UpdateMachineStatus restarts the status clock of the machine.
func UpdateMachineStatus(log *slog.Logger, writer MachineWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.UpdateMachineStatus"

		id := chi.URLParam(r, "id")

		var req StatusRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := writer.UpdateMachineStatus(ctx, id, req.Status, req.Reason); err != nil {
			respond.Error(w, log.With(slog.String("machine_id", id)), op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}
