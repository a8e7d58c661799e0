package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getanalytics "mold-tracker/http-server/analytics/get"
	"mold-tracker/http-server/auth/login"
	getdashboard "mold-tracker/http-server/dashboard/get"
	generate_excel "mold-tracker/http-server/generate-report/generate-excel"
	"mold-tracker/http-server/layout"
	getmachines "mold-tracker/http-server/machines/get"
	savemachines "mold-tracker/http-server/machines/save"
	getmolds "mold-tracker/http-server/molds/get"
	"mold-tracker/http-server/molds/notes"
	"mold-tracker/http-server/molds/remove"
	savemolds "mold-tracker/http-server/molds/save"
	upmolds "mold-tracker/http-server/molds/update"
	getpersonnel "mold-tracker/http-server/personnel/get"
	savepersonnel "mold-tracker/http-server/personnel/save"
	"mold-tracker/http-server/stream"
	"mold-tracker/internal/access"
	"mold-tracker/internal/config"
	"mold-tracker/internal/middleware/auth"
	"mold-tracker/internal/realtime"
	"mold-tracker/internal/service/report"
	"mold-tracker/internal/service/tracker"
	"mold-tracker/internal/session"
	"mold-tracker/internal/storage/mysql"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	storage *mysql.Storage,
	svc *tracker.Service,
	sessions *session.Store,
	hub *realtime.Hub,
	reports *report.Service,
) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/login", login.Login(log, sessions))

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))

		r.Post("/api/logout", login.Logout(log, sessions))
		r.Get("/api/me", login.Me(log))

		// each client opens one stream per collection it renders
		r.With(auth.RequireView(access.ViewMoldList)).Get("/api/stream/{topic}", stream.Stream(log, hub))

		// molds
		r.With(auth.RequireView(access.ViewMoldList)).Get("/api/molds", getmolds.GetAllMolds(log, storage))
		r.With(auth.RequireView(access.ViewMoldDetail)).Get("/api/molds/{id}", getmolds.GetMold(log, storage))
		r.With(auth.RequireView(access.ViewAdmin)).Post("/api/molds", savemolds.SaveMold(log, svc))
		r.With(auth.RequireView(access.ViewMoldDetail)).Put("/api/molds/{id}", upmolds.UpdateMold(log, svc))
		r.With(auth.RequireView(access.ViewAdmin)).Delete("/api/molds/{id}", remove.DeleteMold(log, svc))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireView(access.ViewMoldDetail))

			r.Put("/api/molds/{id}/tasks/{taskId}/operations/{opId}", upmolds.UpdateOperation(log, svc))
			r.Post("/api/molds/{id}/tasks/{taskId}/operations", upmolds.AppendOperation(log, svc))
			r.Get("/api/molds/{id}/notes", notes.GetNotes(log, storage))
			r.Post("/api/molds/{id}/notes", notes.AddNote(log, svc))
		})

		// reference data
		r.With(auth.RequireView(access.ViewMoldDetail)).Get("/api/personnel", getpersonnel.GetPersonnel(log, storage))
		r.With(auth.RequireView(access.ViewAdmin)).Post("/api/personnel", savepersonnel.SavePerson(log, svc))
		r.With(auth.RequireView(access.ViewAdmin)).Delete("/api/personnel/{id}", savepersonnel.DeletePerson(log, svc))

		r.With(auth.RequireView(access.ViewMoldDetail)).Get("/api/machines", getmachines.GetMachines(log, storage))
		r.With(auth.RequireView(access.ViewAdmin)).Post("/api/machines", savemachines.SaveMachine(log, svc))
		r.With(auth.RequireView(access.ViewDashboardMap)).Put("/api/machines/{id}/status", savemachines.UpdateMachineStatus(log, svc))

		r.With(auth.RequireView(access.ViewDashboardMap)).Get("/api/layout", layout.GetLayout(log, storage))
		r.With(auth.RequireView(access.ViewLayoutEditor)).Put("/api/layout", layout.SaveLayout(log, svc))

		// dashboards
		r.With(auth.RequireView(access.ViewActiveTasks)).Get("/api/dashboard/active", getdashboard.ActiveTasks(log, storage))
		r.With(auth.RequireView(access.ViewCamQueue)).Get("/api/dashboard/cam-queue", getdashboard.CamQueue(log, storage))
		r.With(auth.RequireView(access.ViewReviewQueue)).Get("/api/dashboard/review-queue", getdashboard.ReviewQueue(log, storage))
		r.With(auth.RequireView(access.ViewHistory)).Get("/api/dashboard/history", getdashboard.History(log, storage))

		// analytics
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireView(access.ViewAnalytics))

			r.Get("/api/analytics/years", getanalytics.Years(log, storage, time.Now))
			r.Get("/api/analytics/yearly", getanalytics.Yearly(log, storage, time.Now))
			r.Get("/api/analytics/person/{id}", getanalytics.Person(log, storage))
			r.Get("/api/analytics/mold/{id}", getanalytics.Mold(log, storage))
			r.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, reports))
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return router
}
