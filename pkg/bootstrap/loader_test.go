package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaultBootstrapConfig(t *testing.T) {
	cfg := GetDefaultBootstrapConfig()

	if cfg.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", cfg.Version)
	}

	if len(cfg.Endpoints) == 0 {
		t.Fatal("expected endpoints, got none")
	}

	ep, ok := cfg.Endpoints["default"]
	if !ok {
		t.Fatal("expected default endpoint")
	}

	if ep.Action != "notifications.event" {
		t.Errorf("expected action notifications.event, got %s", ep.Action)
	}
	if ep.Subject != "notify.dispatch.default" {
		t.Errorf("expected subject notify.dispatch.default, got %s", ep.Subject)
	}
	if ep.Protocol != DefaultProtocol {
		t.Errorf("expected protocol %s, got %s", DefaultProtocol, ep.Protocol)
	}
}

func TestLoadBootstrapConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bootstrap.json")

	content := `{
		"name": "test-bootstrap",
		"version": "2.0.0",
		"endpoints": {
			"mobile": {
				"action": "notifications.event",
				"subject": "notify.dispatch.mobile",
				"protocol": "1.2.0"
			}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write bootstrap file: %v", err)
	}

	cfg, err := LoadBootstrapConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "test-bootstrap" {
		t.Errorf("name = %q", cfg.Name)
	}
	ep, ok := cfg.Endpoints["mobile"]
	if !ok {
		t.Fatal("expected mobile endpoint")
	}
	if ep.Subject != "notify.dispatch.mobile" {
		t.Errorf("subject = %q", ep.Subject)
	}
	if ep.Protocol != "1.2.0" {
		t.Errorf("protocol = %q", ep.Protocol)
	}
}

func TestLoadBootstrapConfig_MissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := LoadBootstrapConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := cfg.Endpoints["default"]; !ok {
		t.Error("expected fallback default endpoint")
	}
}

func TestLoadBootstrapConfig_InvalidJSONFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cfg, err := LoadBootstrapConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "notify-bootstrap" {
		t.Errorf("expected default config, got %q", cfg.Name)
	}
}

func TestMergeBootstrapConfigs(t *testing.T) {
	base := GetDefaultBootstrapConfig()
	override := &BootstrapConfig{
		Endpoints: map[string]BootstrapEndpoint{
			"mobile": {
				Action:   "notifications.event",
				Subject:  "notify.dispatch.mobile",
				Protocol: "1.1.0",
			},
		},
	}

	merged := MergeBootstrapConfigs(base, override)

	if _, ok := merged.Endpoints["default"]; !ok {
		t.Error("expected default endpoint from base to remain")
	}
	if _, ok := merged.Endpoints["mobile"]; !ok {
		t.Error("expected mobile endpoint from override to be added")
	}
	if merged.Name != base.Name {
		t.Errorf("expected base name to remain, got %q", merged.Name)
	}
}

func TestMergeBootstrapConfigs_OverrideName(t *testing.T) {
	base := GetDefaultBootstrapConfig()
	override := &BootstrapConfig{Name: "custom", Version: "3.0.0"}

	merged := MergeBootstrapConfigs(base, override)
	if merged.Name != "custom" {
		t.Errorf("name = %q, want custom", merged.Name)
	}
	if merged.Version != "3.0.0" {
		t.Errorf("version = %q, want 3.0.0", merged.Version)
	}
}
