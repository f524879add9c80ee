package resolver

import (
	"context"
	"testing"
)

func TestStatic_Resolve(t *testing.T) {
	s := NewStatic(map[string]Endpoint{
		"notifications.event": {Name: "default", Subject: "notify.dispatch.default", Protocol: "1.0.0"},
	})

	ep, err := s.Resolve(context.Background(), "notifications.event")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ep == nil {
		t.Fatal("expected endpoint, got nil")
	}
	if ep.Name != "default" {
		t.Errorf("name = %q, want %q", ep.Name, "default")
	}
	if ep.Subject != "notify.dispatch.default" {
		t.Errorf("subject = %q", ep.Subject)
	}
}

func TestStatic_ResolveUnknownAction(t *testing.T) {
	s := NewStatic(map[string]Endpoint{
		"notifications.event": {Name: "default"},
	})

	ep, err := s.Resolve(context.Background(), "some.other.action")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ep != nil {
		t.Errorf("expected nil endpoint for unknown action, got %+v", ep)
	}
}

func TestStatic_NilMap(t *testing.T) {
	s := NewStatic(nil)

	ep, err := s.Resolve(context.Background(), "notifications.event")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ep != nil {
		t.Errorf("expected nil endpoint, got %+v", ep)
	}
}

func TestStatic_ResolveReturnsCopy(t *testing.T) {
	s := NewStatic(map[string]Endpoint{
		"notifications.event": {Name: "default"},
	})

	first, _ := s.Resolve(context.Background(), "notifications.event")
	first.Name = "mutated"

	second, _ := s.Resolve(context.Background(), "notifications.event")
	if second.Name != "default" {
		t.Errorf("resolver state mutated through returned endpoint: %q", second.Name)
	}
}

func TestNewRegistry_InvalidConstraint(t *testing.T) {
	if _, err := NewRegistry(nil, "not a constraint"); err == nil {
		t.Error("expected error for invalid protocol constraint")
	}
}

func TestNewRegistry_ValidConstraints(t *testing.T) {
	for _, c := range []string{"^1.0.0", ">=1.2.0 <2.0.0", "1.x"} {
		if _, err := NewRegistry(nil, c); err != nil {
			t.Errorf("NewRegistry(%q) failed: %v", c, err)
		}
	}
}
