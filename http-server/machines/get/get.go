package get

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/storage"
)

type MachineProvider interface {
	GetAllMachines(ctx context.Context) ([]storage.Machine, error)
}

func GetMachines(log *slog.Logger, provider MachineProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetMachines"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := provider.GetAllMachines(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}
		if machines == nil {
			machines = []storage.Machine{}
		}
		sort.SliceStable(machines, func(i, j int) bool { return machines[i].Name < machines[j].Name })

		render.JSON(w, r, machines)
	}
}
