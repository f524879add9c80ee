package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/notifyhub/notifications-dispatch/pkg/db"
)

const registryLogPrefix = "resolver:registry"

// Registry resolves endpoints from the Postgres handler endpoint registry.
// Every Resolve call queries the registry fresh and picks the newest enabled
// endpoint whose declared protocol version satisfies the service's supported
// constraint.
type Registry struct {
	repo       *db.Repository
	constraint *semver.Constraints
}

// NewRegistry creates a Registry resolver. supportedProtocol is a semver
// constraint such as "^1.0.0".
func NewRegistry(repo *db.Repository, supportedProtocol string) (*Registry, error) {
	c, err := semver.NewConstraint(supportedProtocol)
	if err != nil {
		return nil, fmt.Errorf("%s - invalid protocol constraint %q: %w", registryLogPrefix, supportedProtocol, err)
	}
	return &Registry{repo: repo, constraint: c}, nil
}

// Resolve returns the current endpoint for action, or nil when none is
// registered or none speaks a compatible protocol.
func (r *Registry) Resolve(ctx context.Context, action string) (*Endpoint, error) {
	endpoints, err := r.repo.ListEndpointsByAction(ctx, action)
	if err != nil {
		return nil, fmt.Errorf("%s - list endpoints for %s: %w", registryLogPrefix, action, err)
	}

	for _, ep := range endpoints {
		v, err := semver.NewVersion(ep.Protocol)
		if err != nil {
			slog.Warn(fmt.Sprintf("%s - endpoint %s declares unparsable protocol %q, skipping", registryLogPrefix, ep.Name, ep.Protocol))
			continue
		}
		if !r.constraint.Check(v) {
			slog.Debug(fmt.Sprintf("%s - endpoint %s protocol %s outside supported range", registryLogPrefix, ep.Name, ep.Protocol))
			continue
		}
		return &Endpoint{Name: ep.Name, Subject: ep.Subject, Protocol: ep.Protocol}, nil
	}

	return nil, nil
}
