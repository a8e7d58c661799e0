package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"mold-tracker/http-server/respond"
	"mold-tracker/internal/service/analytics"
	"mold-tracker/internal/storage"
)

type AnalyticsProvider interface {
	GetAllMolds(ctx context.Context) ([]storage.Mold, error)
	GetMold(ctx context.Context, id string) (*storage.Mold, error)
	GetPerson(ctx context.Context, id string) (*storage.Person, error)
}

var ErrInvalidYear = errors.New("invalid year")

// Clock returns the current time; handlers take it so tests can pin the year.
type Clock func() time.Time

func Years(log *slog.Logger, provider AnalyticsProvider, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.analytics.Years"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		molds, err := provider.GetAllMolds(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, analytics.AvailableYears(molds, now().Year()))
	}
}

// Yearly aggregates ?year=, the current year when absent.
func Yearly(log *slog.Logger, provider AnalyticsProvider, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.analytics.Yearly"

		year, err := ParseYear(r, now)
		if err != nil {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		molds, err := provider.GetAllMolds(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, analytics.Yearly(molds, year))
	}
}

// Person loads the roster entry and the molds concurrently.
func Person(log *slog.Logger, provider AnalyticsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.analytics.Person"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			person *storage.Person
			molds  []storage.Mold
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			person, err = provider.GetPerson(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			molds, err = provider.GetAllMolds(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			respond.Error(w, log.With(slog.String("person_id", id)), op, err)
			return
		}

		render.JSON(w, r, analytics.ForPerson(molds, *person))
	}
}

func Mold(log *slog.Logger, provider AnalyticsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.analytics.Mold"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		mold, err := provider.GetMold(ctx, id)
		if err != nil {
			respond.Error(w, log.With(slog.String("mold_id", id)), op, err)
			return
		}

		render.JSON(w, r, analytics.ForMold(*mold))
	}
}

func ParseYear(r *http.Request, now Clock) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		return 0, ErrInvalidYear
	}
	return year, nil
}
