// Package bootstrap provides bootstrap configuration loading for handler
// endpoints.
package bootstrap

// DefaultProtocol is the protocol version assumed when an endpoint entry
// declares none.
const DefaultProtocol = "1.0.0"

// BootstrapEndpoint is a handler endpoint entry in the bootstrap config,
// keyed by endpoint name in BootstrapConfig.Endpoints.
type BootstrapEndpoint struct {
	Action   string `json:"action"`
	Subject  string `json:"subject"`
	Protocol string `json:"protocol,omitempty"`
}

// BootstrapConfig is the root bootstrap configuration: the handler endpoints
// pre-installed into the registry at startup or via the seed command.
type BootstrapConfig struct {
	Name        string                       `json:"name"`
	Version     string                       `json:"version"`
	Description string                       `json:"description,omitempty"`
	Endpoints   map[string]BootstrapEndpoint `json:"endpoints"`
}
