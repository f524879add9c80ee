package bootstrap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

const logPrefix = "bootstrap:loader"

// LoadBootstrapConfig loads bootstrap config from file paths or environment.
// It tries paths in order: first any paths passed in, then the
// NOTIFY_BOOTSTRAP_FILE env var, then defaults. So an explicit path (e.g.
// from "seed my.json") is tried before the env var.
func LoadBootstrapConfig(paths ...string) (*BootstrapConfig, error) {
	// Build path list: passed paths first, then env, then defaults
	all := make([]string, 0, len(paths)+3)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("NOTIFY_BOOTSTRAP_FILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/bootstrap.json", "bootstrap.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		var cfg BootstrapConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			slog.Warn(fmt.Sprintf("%s - Failed to parse bootstrap file %s: %v", logPrefix, p, err))
			continue
		}

		slog.Info(fmt.Sprintf("%s - Loaded bootstrap config from %s", logPrefix, p))
		return &cfg, nil
	}

	slog.Info(fmt.Sprintf("%s - Using default bootstrap config", logPrefix))
	return GetDefaultBootstrapConfig(), nil
}

// GetDefaultBootstrapConfig returns the embedded fallback bootstrap
// configuration: the service's own built-in endpoint, so serve works with no
// bootstrap file present.
func GetDefaultBootstrapConfig() *BootstrapConfig {
	return &BootstrapConfig{
		Name:        "notify-bootstrap",
		Version:     "1.0.0",
		Description: "Default handler endpoint bootstrap configuration",
		Endpoints: map[string]BootstrapEndpoint{
			"default": {
				Action:   "notifications.event",
				Subject:  "notify.dispatch.default",
				Protocol: DefaultProtocol,
			},
		},
	}
}

// MergeBootstrapConfigs merges an override config into a base config.
func MergeBootstrapConfigs(base, override *BootstrapConfig) *BootstrapConfig {
	merged := *base

	if merged.Endpoints == nil {
		merged.Endpoints = make(map[string]BootstrapEndpoint)
	}
	for name, ep := range override.Endpoints {
		merged.Endpoints[name] = ep
	}

	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Version != "" {
		merged.Version = override.Version
	}

	return &merged
}
