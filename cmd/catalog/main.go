package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"musiccatalog/internal/config"
	"musiccatalog/internal/dbmigrate"
	"musiccatalog/internal/logging"
	"musiccatalog/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, closeStore, err := openCatalog(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open catalog storage")
	}
	defer closeStore()

	svc := newServices(catalog)

	if cfg.SeedDemoData {
		if err := bootstrapDemoData(ctx, svc); err != nil {
			log.Fatal().Err(err).Msg("seed demo data")
		}
	}

	server := newHTTPServer(cfg, newHTTPHandler(cfg, svc))

	go func() {
		log.Info().Str("addr", server.Addr).Str("driver", cfg.Storage.Driver).Msg("catalog API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}

// openCatalog builds the configured repository and returns a cleanup func.
func openCatalog(ctx context.Context, cfg *config.Config) (store.Catalog, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		return store.NewMemoryStore(), func() {}, nil
	}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { closeQuietly(db) }

	if cfg.Database.AutoMigrate {
		if err := dbmigrate.Up(db); err != nil {
			closeDB()
			return nil, nil, err
		}
		log.Info().Msg("database schema is up to date")
	}

	return store.New(db), closeDB, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("close database")
	}
}
