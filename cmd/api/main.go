// Package main is the entry point for the WhereEat API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pumpkinkking/whereeat/internal/config"
	"github.com/pumpkinkking/whereeat/internal/domain"
	"github.com/pumpkinkking/whereeat/internal/handler"
	"github.com/pumpkinkking/whereeat/internal/middleware"
	"github.com/pumpkinkking/whereeat/internal/store"
)

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Default logger before the JSON logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Storage ----------------------------------------------------------
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeKV()
	slog.Info("storage ready", "driver", cfg.StorageDriver)

	// --- Stores -----------------------------------------------------------
	plans := store.NewPlanStore(kv, store.WithLogger(logger))
	if err := plans.Load(ctx); err != nil {
		slog.Error("failed to load plans", "error", err)
		os.Exit(1)
	}
	unsubscribe := plans.Subscribe(func(state store.PlanState) {
		slog.Debug("plans changed", "plans", len(state.Plans), "current_plan_id", state.CurrentPlanID)
	})
	defer unsubscribe()

	foods := store.NewFoodStore(kv, store.WithLogger(logger))
	if err := foods.Load(ctx); err != nil {
		slog.Error("failed to load food state", "error", err)
		os.Exit(1)
	}

	seed, err := loadTrips(cfg.TripSeedFile)
	if err != nil {
		slog.Error("failed to load trip seed", "file", cfg.TripSeedFile, "error", err)
		os.Exit(1)
	}
	trips := store.NewTripStore(seed)
	slog.Info("trips seeded", "count", len(seed))

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srvHandler := handler.NewServer(plans, trips, foods, logger)
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// loadTrips reads the trip seed from path, or the built-in seed when path is empty.
func loadTrips(path string) ([]domain.Trip, error) {
	if path == "" {
		return store.DefaultTrips()
	}
	return store.LoadTripSeed(path)
}
