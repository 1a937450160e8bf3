// Package assistauth wires the authentication core together: configuration
// resolution, the backend registry with the built-in backends, and account
// construction for the request-handling layer that embeds this library.
package assistauth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-assist-auth/auth"
	"github.com/goliatone/go-assist-auth/core"
	"github.com/goliatone/go-assist-auth/identity"
	"github.com/goliatone/go-assist-auth/security"
)

type Config = core.Config

type Role = core.Role

type ErrorCode = core.ErrorCode

type Authenticator = core.Authenticator

type RequestParameters = core.RequestParameters

type AuthRequest = core.AuthRequest

type SharedAccessItem = core.SharedAccessItem

type BackendRegistry = core.BackendRegistry

type Account = identity.Account

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// DefaultRegistry returns a registry holding the built-in backends. The
// registry is populated once at startup; resolving a backend later never
// involves reflection.
func DefaultRegistry() (*core.BackendRegistry, error) {
	registry := core.NewBackendRegistry()
	if err := registry.Register(core.BackendAssistAPI, func(cfg core.Config) (core.Authenticator, error) {
		return auth.NewAssistAPIBackend(cfg), nil
	}); err != nil {
		return nil, err
	}
	if err := registry.Register(core.BackendAlwaysAllow, func(cfg core.Config) (core.Authenticator, error) {
		return auth.NewAlwaysAllowBackend(), nil
	}); err != nil {
		return nil, err
	}
	return registry, nil
}

// Setup resolves configuration through the layered provider stack
// (defaults < loaded < runtime) and validates the result.
func Setup(ctx context.Context, runtime Config, loader core.RawConfigLoader) (Config, error) {
	defaults := core.DefaultConfig()
	loaded, err := core.NewCfgxConfigProvider(loader).Load(ctx, defaults)
	if err != nil {
		return Config{}, core.MapError(err)
	}
	resolved, err := core.GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		return Config{}, core.MapError(err)
	}
	return resolved, nil
}

// NewAccount builds the configured backend from the registry and returns a
// fresh session account bound to it. Call once per inbound request.
func NewAccount(cfg Config, registry *core.BackendRegistry, opts ...identity.Option) (*identity.Account, error) {
	if registry == nil {
		return nil, fmt.Errorf("assistauth: backend registry is required")
	}
	backend, err := registry.Build(cfg.Backend, cfg)
	if err != nil {
		return nil, err
	}
	return identity.New(cfg, backend, opts...), nil
}

// NewValidator returns the inter-node trust validator for the configured
// shared secret and node key.
func NewValidator(cfg Config, opts ...security.Option) *security.Validator {
	return security.New(cfg, opts...)
}
