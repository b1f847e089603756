// Package config reads SDK configuration from BRAINTRUST_* environment
// variables.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is the environment-driven SDK configuration. Programmatic
// options layered on top of it take precedence.
type Config struct {
	APIKey           string `env:"BRAINTRUST_API_KEY"`
	APIURL           string `env:"BRAINTRUST_API_URL, default=https://api.braintrust.dev"`
	AppURL           string `env:"BRAINTRUST_APP_URL, default=https://www.braintrust.dev"`
	DefaultProject   string `env:"BRAINTRUST_DEFAULT_PROJECT, default=default-go-project"`
	DefaultProjectID string `env:"BRAINTRUST_DEFAULT_PROJECT_ID"`

	// Parent is a "type:id" parent string such as "project_id:abc",
	// ultimately populating the object fields of new span identities.
	Parent string `env:"BRAINTRUST_PARENT"`
}

// FromEnv loads configuration from the process environment.
func FromEnv(ctx context.Context) (*Config, error) {
	var c Config
	if err := envconfig.Process(ctx, &c); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}
	return &c, nil
}

// FromLookuper loads configuration from an explicit lookuper. Intended
// for tests that should not read the real environment.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var c Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &c, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}
	return &c, nil
}
