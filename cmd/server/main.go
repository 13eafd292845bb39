// cmd/server is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/okhariv/resource-booking/internal/config"
	"github.com/okhariv/resource-booking/internal/database"
	"github.com/okhariv/resource-booking/internal/engine"
	"github.com/okhariv/resource-booking/internal/handler"
	"github.com/okhariv/resource-booking/internal/model"
	"github.com/okhariv/resource-booking/internal/store"
	"github.com/okhariv/resource-booking/internal/store/memory"
	"github.com/okhariv/resource-booking/internal/store/postgres"
	"github.com/okhariv/resource-booking/internal/store/rest"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	resources, bookings, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := engine.New(resources, bookings, engine.Options{})
	api := handler.NewBookingHandler(eng, resources, cfg.DefaultUserID)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for browser clients
	api.Routes(r)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// buildStores selects the record store backend from config.
func buildStores(ctx context.Context, cfg config.App) (store.ResourceStore, store.BookingStore, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := database.NewPool(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database: %w", err)
		}
		slog.Info("connected to postgres")
		return postgres.NewResourceStore(pool), postgres.NewBookingStore(pool), pool.Close, nil

	case "rest":
		client := rest.New(cfg.RecordStoreURL)
		slog.Info("using rest record store", "url", cfg.RecordStoreURL)
		return client.Resources(), client.Bookings(), func() {}, nil

	case "memory":
		mem := memory.New()
		mem.SeedResources(seedResources())
		slog.Info("using in-memory store with seed data")
		return mem, mem.Bookings(), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// seedResources is the demo data set for the memory backend.
func seedResources() []model.Resource {
	hourly := []string{
		"09:00-10:00", "10:00-11:00", "11:00-12:00",
		"13:00-14:00", "14:00-15:00", "15:00-16:00", "16:00-17:00",
	}
	return []model.Resource{
		{
			ID: "1", Name: "Conference Room Alpha", Type: model.TypeMeetingRoom,
			Description: "Large meeting room with projector and whiteboard",
			Capacity:    12, TotalUnits: 1, AvailableUnits: 1, TimeSlots: hourly,
		},
		{
			ID: "2", Name: "MacBook Pro 16", Type: model.TypeEquipment,
			Description: "Loaner laptop for presentations and travel",
			Capacity:    1, TotalUnits: 5, AvailableUnits: 5, TimeSlots: hourly,
		},
		{
			ID: "3", Name: "Hot Desk Row B", Type: model.TypeWorkspace,
			Description: "Adjustable standing desks near the window",
			Capacity:    1, TotalUnits: 8, AvailableUnits: 8, TimeSlots: hourly,
		},
	}
}
