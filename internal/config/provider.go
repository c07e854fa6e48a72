// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions select where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath names the only file to read. It must exist.
	ConfigFilePath string
	// ConfigDirPath replaces the per-user configuration directory.
	ConfigDirPath string
}

// Provider loads configuration for one invocation. Every call builds a fresh
// Config; nothing is cached between calls.
type Provider struct{}

// NewProvider returns a Provider reading CUE files and DOXYCHECK_* variables.
func NewProvider() *Provider { return &Provider{} }

// Load returns the effective configuration.
func (*Provider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

// LoadWithSource is Load that also returns the file it read, or "" when only
// defaults and the environment apply.
func (*Provider) LoadWithSource(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}
