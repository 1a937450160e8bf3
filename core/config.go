package core

import (
	"fmt"
	"strings"
)

const (
	// BackendAssistAPI selects the remote-delegating backend.
	BackendAssistAPI = "assist_api"
	// BackendAlwaysAllow selects the offline development backend.
	BackendAlwaysAllow = "always_allow"
)

type Config struct {
	ServiceName   string `koanf:"service_name" mapstructure:"service_name"`
	DefaultClient string `koanf:"default_client" mapstructure:"default_client"`
	Backend       string `koanf:"backend" mapstructure:"backend"`
	AuthEndpoint  string `koanf:"auth_endpoint" mapstructure:"auth_endpoint"`
	NodeName      string `koanf:"node_name" mapstructure:"node_name"`
	NodeSecret    string `koanf:"node_secret" mapstructure:"node_secret"`
	NodeKey       string `koanf:"node_key" mapstructure:"node_key"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:   "assist-auth",
		DefaultClient: "web_app",
		Backend:       BackendAssistAPI,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.DefaultClient) == "" {
		return fmt.Errorf("core: default_client is required")
	}
	if strings.TrimSpace(c.Backend) == "" {
		return fmt.Errorf("core: backend is required")
	}
	if strings.TrimSpace(c.Backend) == BackendAssistAPI && strings.TrimSpace(c.AuthEndpoint) == "" {
		return fmt.Errorf("core: auth_endpoint is required for the %s backend", BackendAssistAPI)
	}
	return nil
}
