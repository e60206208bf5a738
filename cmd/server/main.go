// Server process for Predictia
// Trains tabular models from JSON rows and serves predictions over HTTP
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/predictia/predictia-go/pkg/api"
	"github.com/predictia/predictia-go/pkg/config"
	"github.com/predictia/predictia-go/pkg/mlmodel"
	"github.com/predictia/predictia-go/pkg/registry"
	"github.com/predictia/predictia-go/pkg/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting Predictia server in %s mode", cfg.Environment)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize the model registry
	dbPath := filepath.Join(cfg.DataDir, "predictia.db")
	store, err := registry.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize registry: %v", err)
	}
	defer store.Close()

	log.Printf("Initialized SQLite registry at: %s", dbPath)

	// Initialize the bundle store
	bundles, err := mlmodel.NewFileBundleStore(filepath.Join(cfg.DataDir, "models"))
	if err != nil {
		log.Fatalf("Failed to initialize bundle store: %v", err)
	}

	// Entries stuck in queued/training from a previous crash are swept
	// to failed before serving traffic, then periodically.
	janitor := registry.NewJanitor(store, time.Duration(cfg.StaleTrainingSecs)*time.Second)
	if swept, err := janitor.SweepOnce(); err != nil {
		log.Fatalf("Failed to run startup sweep: %v", err)
	} else if swept > 0 {
		log.Printf("Startup sweep marked %d abandoned entries as failed", swept)
	}
	janitor.Start(time.Duration(cfg.SweepIntervalSecs) * time.Second)
	defer janitor.Stop()

	pool := worker.NewPool()
	service := mlmodel.NewService(store, bundles, pool)
	server := api.NewServer(service, cfg.Port)

	// Start the API server
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		// Stop accepting new submissions before draining, otherwise
		// fresh trainings keep arriving and the drain never converges.
		log.Printf("Received signal %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("HTTP shutdown failed: %v", err)
		}
		cancel()
		log.Println("Draining in-flight trainings")
		pool.Wait()
	case err := <-errCh:
		log.Fatalf("API server failed: %v", err)
	}

	log.Println("Server stopped")
}
