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

type PersonnelProvider interface {
	GetAllPersonnel(ctx context.Context) ([]storage.Person, error)
}

// GetPersonnel returns the roster sorted by name, without password hashes.
// An optional ?role= narrows it down, e.g. to fill an operator picker.
func GetPersonnel(log *slog.Logger, provider PersonnelProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.personnel.GetPersonnel"

		role := storage.Role(r.URL.Query().Get("role"))
		if role != "" && !role.Valid() {
			http.Error(w, "Unknown role", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		personnel, err := provider.GetAllPersonnel(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		out := make([]storage.Person, 0, len(personnel))
		for _, p := range personnel {
			if role != "" && p.Role != role {
				continue
			}
			out = append(out, p.Public())
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

		render.JSON(w, r, out)
	}
}
