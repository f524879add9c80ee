package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearEndpoints truncates the handler endpoint registry. Schema is
// preserved; only data is removed.
func ClearEndpoints(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing handler endpoints", clearLogPrefix))

	_, err := pool.Exec(ctx, `TRUNCATE TABLE handler_endpoints RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Handler endpoints cleared", clearLogPrefix))
	return nil
}
