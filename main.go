package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardiaccare/cardiaccare-api/catalog"
	"github.com/cardiaccare/cardiaccare-api/config"
	"github.com/cardiaccare/cardiaccare-api/data"
	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/logging"
	"github.com/cardiaccare/cardiaccare-api/scheduler"
	"github.com/cardiaccare/cardiaccare-api/server"
	"github.com/cardiaccare/cardiaccare-api/storage/hasura"
	"github.com/cardiaccare/cardiaccare-api/storage/memory"
	"github.com/cardiaccare/cardiaccare-api/storage/postgres"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, environment variables may come from the service manager
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks)

	container := data.NewContainer()
	container.SetServerStartTime(time.Now())

	recordStore, cleanup, err := buildRecordStore(cfg)
	if err != nil {
		logging.Error("Failed to initialize record store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	defer cleanup()
	logging.Info("Record store ready", "backend", cfg.StoreBackend)

	fetcher := catalog.NewDownloader(cfg.CatalogURL)
	catalogScheduler := scheduler.NewScheduler(container, fetcher)
	if err := catalogScheduler.Start(); err != nil {
		logging.Error("Failed to start catalog scheduler", "error", err)
		os.Exit(1)
	}
	defer catalogScheduler.Stop()

	srv := server.NewServer(cfg, container, recordStore)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}

// buildRecordStore selects the record store backend from configuration. The
// cleanup func releases backend resources and is safe to call once.
func buildRecordStore(cfg *config.Config) (interfaces.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		return store, store.Close, nil
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	default:
		return hasura.NewStore(cfg.HasuraGraphqlURL, cfg.HasuraAdminSecret, 10*time.Second), func() {}, nil
	}
}
