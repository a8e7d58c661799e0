package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mold-tracker/internal/config"
	"mold-tracker/internal/realtime"
	"mold-tracker/internal/service/migrate"
	"mold-tracker/internal/service/report"
	"mold-tracker/internal/service/tracker"
	"mold-tracker/internal/session"
	"mold-tracker/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env, cfg.LogFile)
	log.Info("starting mold tracker", slog.String("env", cfg.Env))

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	hub := realtime.NewHub(log, cfg.StreamBuffer)
	sessions := session.NewStore(log, storage, cfg.SessionTTL)
	trackerService := tracker.New(log, storage, hub, bcrypt.DefaultCost).WithSessions(sessions)
	reportService := report.NewService(storage)

	if err := startup(cfg, log, storage, trackerService, sessions); err != nil {
		log.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// No WriteTimeout: event streams stay open for as long as the client.
	srv := &http.Server{
		Addr:        cfg.Address,
		Handler:     routes(*cfg, log, storage, trackerService, sessions, hub, reportService),
		ReadTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout: cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

// startup runs the gates in order: database reachable, schema present,
// reference data seeded and molds normalized, sessions restored.
func startup(cfg *config.Config, log *slog.Logger, storage *mysql.Storage, svc *tracker.Service, sessions *session.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancel()

	if err := storage.Ping(ctx); err != nil {
		return err
	}
	if err := storage.Migrate(ctx); err != nil {
		return err
	}

	seeder := migrate.NewSeeder(log, storage)
	normalizer := migrate.NewNormalizer(log, storage)
	if err := svc.Bootstrap(ctx, seeder, normalizer); err != nil {
		return err
	}

	restored, err := sessions.Rehydrate(ctx)
	if err != nil {
		return err
	}
	log.Info("sessions restored", slog.Int("count", restored))

	return nil
}
