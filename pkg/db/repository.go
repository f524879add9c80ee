package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoLogPrefix = "db:repository"

// Repository provides database access to the handler endpoint registry.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RegisterEndpointParams holds parameters for RegisterEndpoint.
type RegisterEndpointParams struct {
	Action   string
	Name     string
	Subject  string
	Protocol string
}

// RegisterEndpoint creates or updates a handler endpoint for (action, name).
// Re-registering refreshes subject, protocol and the registration time, and
// re-enables a disabled endpoint.
func (r *Repository) RegisterEndpoint(ctx context.Context, params RegisterEndpointParams) (*HandlerEndpoint, error) {
	slog.Info(fmt.Sprintf("%s - RegisterEndpoint action=%s name=%s", repoLogPrefix, params.Action, params.Name))

	now := time.Now().UTC()

	row := r.pool.QueryRow(ctx,
		`INSERT INTO handler_endpoints (action, name, subject, protocol, registered, modified)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (action, name) DO UPDATE SET
		   subject = EXCLUDED.subject,
		   protocol = EXCLUDED.protocol,
		   enabled = TRUE,
		   registered = EXCLUDED.registered,
		   modified = EXCLUDED.modified
		 RETURNING id, action, name, subject, protocol, enabled, registered, modified`,
		params.Action, params.Name, params.Subject, params.Protocol, now)

	return scanEndpoint(row)
}

// RemoveEndpoint disables a handler endpoint. Returns true when a row was
// affected.
func (r *Repository) RemoveEndpoint(ctx context.Context, action, name string) (bool, error) {
	slog.Info(fmt.Sprintf("%s - RemoveEndpoint action=%s name=%s", repoLogPrefix, action, name))

	tag, err := r.pool.Exec(ctx,
		`UPDATE handler_endpoints SET enabled = FALSE, modified = $3
		 WHERE action = $1 AND name = $2 AND enabled`,
		action, name, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("%s - remove endpoint: %w", repoLogPrefix, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListEndpointsByAction returns the enabled endpoints for an action, newest
// registration first. Called fresh on every resolution; results are never
// cached.
func (r *Repository) ListEndpointsByAction(ctx context.Context, action string) ([]HandlerEndpoint, error) {
	slog.Debug(fmt.Sprintf("%s - ListEndpointsByAction action=%s", repoLogPrefix, action))

	rows, err := r.pool.Query(ctx,
		`SELECT id, action, name, subject, protocol, enabled, registered, modified
		 FROM handler_endpoints
		 WHERE action = $1 AND enabled
		 ORDER BY registered DESC, name`,
		action)
	if err != nil {
		return nil, fmt.Errorf("%s - list endpoints: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	return collectEndpoints(rows)
}

// ListEndpoints returns all endpoints (enabled and disabled), for the
// operational surface.
func (r *Repository) ListEndpoints(ctx context.Context) ([]HandlerEndpoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, action, name, subject, protocol, enabled, registered, modified
		 FROM handler_endpoints
		 ORDER BY action, name`)
	if err != nil {
		return nil, fmt.Errorf("%s - list endpoints: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	return collectEndpoints(rows)
}

// Ping verifies database connectivity (health checks).
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanEndpoint(row pgx.Row) (*HandlerEndpoint, error) {
	var e HandlerEndpoint
	err := row.Scan(&e.ID, &e.Action, &e.Name, &e.Subject, &e.Protocol, &e.Enabled, &e.Registered, &e.Modified)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%s - scan endpoint: %w", repoLogPrefix, err)
	}
	return &e, nil
}

func collectEndpoints(rows pgx.Rows) ([]HandlerEndpoint, error) {
	var out []HandlerEndpoint
	for rows.Next() {
		var e HandlerEndpoint
		if err := rows.Scan(&e.ID, &e.Action, &e.Name, &e.Subject, &e.Protocol, &e.Enabled, &e.Registered, &e.Modified); err != nil {
			return nil, fmt.Errorf("%s - scan endpoint: %w", repoLogPrefix, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s - iterate endpoints: %w", repoLogPrefix, err)
	}
	return out, nil
}
