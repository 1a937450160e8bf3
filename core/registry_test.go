package core

import (
	"context"
	"testing"
)

type registryStubBackend struct {
	name string
}

func (b *registryStubBackend) SetRequestInfo(RequestParameters) {}

func (b *registryStubBackend) Authenticate(context.Context, AuthRequest) bool { return false }

func (b *registryStubBackend) UserID() string { return b.name }

func (b *registryStubBackend) AccessLevel() int { return -1 }

func (b *registryStubBackend) BasicInfo() map[string]any { return map[string]any{} }

func (b *registryStubBackend) ErrorCode() ErrorCode { return CodeUnknown }

func TestBackendRegistry_RegisterAndBuild(t *testing.T) {
	registry := NewBackendRegistry()
	err := registry.Register("Stub", func(cfg Config) (Authenticator, error) {
		return &registryStubBackend{name: cfg.ServiceName}, nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	backend, err := registry.Build("stub", Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if backend.UserID() != "svc" {
		t.Fatalf("expected factory to receive config, got %q", backend.UserID())
	}
}

func TestBackendRegistry_BuildFallsBackToConfiguredSelector(t *testing.T) {
	registry := NewBackendRegistry()
	if err := registry.Register("primary", func(Config) (Authenticator, error) {
		return &registryStubBackend{name: "primary"}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	backend, err := registry.Build("", Config{Backend: "primary"})
	if err != nil {
		t.Fatalf("build with empty name: %v", err)
	}
	if backend.UserID() != "primary" {
		t.Fatalf("expected configured backend, got %q", backend.UserID())
	}
}

func TestBackendRegistry_DuplicateAndMissing(t *testing.T) {
	registry := NewBackendRegistry()
	factory := func(Config) (Authenticator, error) {
		return &registryStubBackend{}, nil
	}
	if err := registry.Register("dup", factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("dup", factory); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if _, err := registry.Build("absent", Config{}); err == nil {
		t.Fatalf("expected missing backend to fail")
	}
	if err := registry.Register("", factory); err == nil {
		t.Fatalf("expected empty name to fail")
	}
}

func TestBackendRegistry_NamesSorted(t *testing.T) {
	registry := NewBackendRegistry()
	factory := func(Config) (Authenticator, error) {
		return &registryStubBackend{}, nil
	}
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(name, factory); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	names := registry.Names()
	if len(names) != 3 || names[0] != "alpha" || names[2] != "zeta" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}
