package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Options struct {
	// Attempts bounds how often the first ping is tried before giving up.
	Attempts uint
	Delay    time.Duration
}

// New opens a pool and waits for the server to answer, retrying with backoff while the
// database container is still starting.
func New(ctx context.Context, connStr string, opts Options) (*sql.DB, error) {
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}

	if opts.Delay == 0 {
		opts.Delay = time.Second
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("database not ready", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
