package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"musiccatalog/internal/config"
)

// openDatabase establishes a pooled connection and retries until the instance responds.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	const (
		pingTimeout    = 5 * time.Second
		maxWait        = 30 * time.Second
		initialBackoff = 500 * time.Millisecond
		maxBackoff     = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}

		// Respect caller cancellation.
		if ctx.Err() != nil {
			break
		}

		if time.Now().After(deadline) {
			break
		}

		log.Warn().Err(lastErr).Dur("retry_in", backoff).Msg("database not ready")
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
