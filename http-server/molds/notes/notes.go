package notes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/middleware/auth"
	"mold-tracker/internal/storage"
)

type NotesProvider interface {
	GetMoldNotes(ctx context.Context, moldID string) ([]storage.MoldNote, error)
}

type NoteAdder interface {
	AddNote(ctx context.Context, moldID, author, text string) (*storage.MoldNote, error)
}

func GetNotes(log *slog.Logger, provider NotesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notes.GetNotes"

		moldID := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		notes, err := provider.GetMoldNotes(ctx, moldID)
		if err != nil {
			respond.Error(w, log.With(slog.String("mold_id", moldID)), op, err)
			return
		}
		if notes == nil {
			notes = []storage.MoldNote{}
		}

		render.JSON(w, r, notes)
	}
}

// AddNote signs the note with the name of the logged in user.
func AddNote(log *slog.Logger, adder NoteAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notes.AddNote"

		moldID := chi.URLParam(r, "id")

		var req struct {
			Text string `json:"text"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		author := ""
		if sess, ok := auth.FromContext(r.Context()); ok {
			author = sess.Name
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		note, err := adder.AddNote(ctx, moldID, author, req.Text)
		if err != nil {
			respond.Error(w, log.With(slog.String("mold_id", moldID)), op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, note)
	}
}
