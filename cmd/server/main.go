package main

import (
	"context"
	"dispatch-simulation-service/internal/api"
	"dispatch-simulation-service/internal/app"
	"dispatch-simulation-service/internal/config"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	router := api.NewRouter(a.Projects, a.Results, a.Dispatcher, api.Options{
		SnapshotInterval: cfg.SnapshotIntervalSeconds,
		Mirror:           a.Mirror(),
	})

	// Simulation streams clear their own write deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s projects=%s", cfg.Port, cfg.ProjectsDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
