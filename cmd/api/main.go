// Package main is the entry point for the itinerary API server. Its sole
// responsibility is wiring dependencies together and starting the server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/meridian-travel/itinerary-api/internal/adapters/httpapi"
	memcombinationrepo "github.com/meridian-travel/itinerary-api/internal/adapters/memory/combinationrepo"
	memdestinationcatalog "github.com/meridian-travel/itinerary-api/internal/adapters/memory/destinationcatalog"
	memitineraryrepo "github.com/meridian-travel/itinerary-api/internal/adapters/memory/itineraryrepo"
	memtemplatecatalog "github.com/meridian-travel/itinerary-api/internal/adapters/memory/templatecatalog"
	postgres "github.com/meridian-travel/itinerary-api/internal/adapters/postgres"
	pgcombinationrepo "github.com/meridian-travel/itinerary-api/internal/adapters/postgres/combinationrepo"
	pgitineraryrepo "github.com/meridian-travel/itinerary-api/internal/adapters/postgres/itineraryrepo"
	"github.com/meridian-travel/itinerary-api/internal/app/combinations"
	"github.com/meridian-travel/itinerary-api/internal/app/itineraries"
	platformclock "github.com/meridian-travel/itinerary-api/internal/platform/clock"
	"github.com/meridian-travel/itinerary-api/internal/platform/config"
	combinationrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/combinationrepo"
	itineraryrepoport "github.com/meridian-travel/itinerary-api/internal/ports/out/itineraryrepo"
	"github.com/meridian-travel/itinerary-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	var (
		entryRepo combinationrepoport.Repository
		itinRepo  itineraryrepoport.Repository
		cleanup   func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		if err := migrate(cfg.DatabaseURL); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close
		entryRepo = pgcombinationrepo.NewRepo(pool)
		itinRepo = pgitineraryrepo.NewRepo(pool)
		slog.Info("database connection established")
	default:
		entryRepo = memcombinationrepo.NewRepo()
		itinRepo = memitineraryrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Destination and template data is owned by the upstream catalog service;
	// until that integration lands these run in-memory and start empty.
	destinationCatalog := memdestinationcatalog.NewCatalog()
	templateCatalog := memtemplatecatalog.NewCatalog()

	clk := platformclock.NewSystemClock()
	combosSvc := combinations.NewService(entryRepo, destinationCatalog, clk)
	itinsSvc := itineraries.NewService(itinRepo, templateCatalog, combosSvc, clk)

	handler := httpapi.NewRouter(httpapi.RouterConfig{
		Combinations:     combosSvc,
		Itineraries:      itinsSvc,
		Logger:           logger,
		CORSOrigins:      cfg.CORSOrigins,
		CallerHeader:     cfg.AuthCallerHeader,
		PrivilegedHeader: cfg.AuthPrivilegedHeader,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending schema migrations before the pool opens.
func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Up(db)
}
