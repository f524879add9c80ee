package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notifyhub/notifications-dispatch/pkg/bootstrap"
)

const seedBootstrapLogPrefix = "db:seed_bootstrap"

// SeedBootstrap loads bootstrap config from the given path and seeds the
// handler endpoint registry with its endpoints. Idempotent: re-seeding
// refreshes existing rows.
func SeedBootstrap(ctx context.Context, pool *pgxpool.Pool, bootstrapFilePath string) error {
	slog.Info(fmt.Sprintf("%s - seeding from %s", seedBootstrapLogPrefix, bootstrapFilePath))

	cfg, err := bootstrap.LoadBootstrapConfig(bootstrapFilePath)
	if err != nil {
		return fmt.Errorf("%s - load bootstrap config: %w", seedBootstrapLogPrefix, err)
	}
	if cfg == nil || len(cfg.Endpoints) == 0 {
		slog.Info(fmt.Sprintf("%s - no endpoints to seed", seedBootstrapLogPrefix))
		return nil
	}

	repo := NewRepository(pool)
	seeded := 0
	for name, ep := range cfg.Endpoints {
		if ep.Action == "" || ep.Subject == "" {
			slog.Warn(fmt.Sprintf("%s - skip invalid endpoint %q (action and subject are required)", seedBootstrapLogPrefix, name))
			continue
		}
		protocol := ep.Protocol
		if protocol == "" {
			protocol = bootstrap.DefaultProtocol
		}
		if _, err := repo.RegisterEndpoint(ctx, RegisterEndpointParams{
			Action:   ep.Action,
			Name:     name,
			Subject:  ep.Subject,
			Protocol: protocol,
		}); err != nil {
			return fmt.Errorf("%s - seed endpoint %q: %w", seedBootstrapLogPrefix, name, err)
		}
		seeded++
	}

	slog.Info(fmt.Sprintf("%s - Seeded %d endpoints", seedBootstrapLogPrefix, seeded))
	return nil
}
