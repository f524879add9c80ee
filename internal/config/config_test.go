package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.COMMSURL != "nats://127.0.0.1:4222" {
		t.Errorf("COMMSURL = %q", cfg.COMMSURL)
	}
	if cfg.COMMSName != "notifications-dispatch" {
		t.Errorf("COMMSName = %q", cfg.COMMSName)
	}
	if cfg.StreamName != "NOTIFY_DISPATCH" {
		t.Errorf("StreamName = %q", cfg.StreamName)
	}
	if cfg.EndpointName != "default" {
		t.Errorf("EndpointName = %q", cfg.EndpointName)
	}
	if cfg.SupportedProtocol != "^1.0.0" {
		t.Errorf("SupportedProtocol = %q", cfg.SupportedProtocol)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.HealthCheckTimeout != 5*time.Second {
		t.Errorf("HealthCheckTimeout = %v", cfg.HealthCheckTimeout)
	}
	if cfg.RunMigrations {
		t.Error("RunMigrations should default to false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COMMS_URL", "nats://comms.internal:4222")
	t.Setenv("NOTIFY_STREAM", "NOTIFY_TEST")
	t.Setenv("NOTIFY_ENDPOINT", "mobile")
	t.Setenv("NOTIFY_SUPPORTED_PROTOCOL", "^2.0.0")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("HEALTH_CHECK_TIMEOUT", "10s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.COMMSURL != "nats://comms.internal:4222" {
		t.Errorf("COMMSURL = %q", cfg.COMMSURL)
	}
	if cfg.StreamName != "NOTIFY_TEST" {
		t.Errorf("StreamName = %q", cfg.StreamName)
	}
	if cfg.EndpointName != "mobile" {
		t.Errorf("EndpointName = %q", cfg.EndpointName)
	}
	if cfg.SupportedProtocol != "^2.0.0" {
		t.Errorf("SupportedProtocol = %q", cfg.SupportedProtocol)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if !cfg.RunMigrations {
		t.Error("RunMigrations = false, want true")
	}
	if cfg.HealthCheckTimeout != 10*time.Second {
		t.Errorf("HealthCheckTimeout = %v", cfg.HealthCheckTimeout)
	}
}

func TestValidateForServe(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }},
		{"empty stream", func(c *Config) { c.StreamName = "" }},
		{"empty endpoint", func(c *Config) { c.EndpointName = "" }},
		{"non-positive timeout", func(c *Config) { c.HealthCheckTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := *cfg
			tt.mutate(&bad)
			if err := bad.ValidateForServe(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateForDB(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/notify"}
	if err := cfg.ValidateForDB(); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	cfg.DatabaseURL = ""
	if err := cfg.ValidateForDB(); err == nil {
		t.Error("expected error for empty DATABASE_URL")
	}
}
