// Package config loads dlt profile configuration from dlt.yaml,
// environment variables and CLI flags. It is decoupled from CLI
// concerns so other tools can load profiles the same way.
package config

import (
	"fmt"

	"github.com/trymzet/dlt/pkg/destination"
)

// Default values applied before any configuration source loads.
const (
	DefaultOutput = "table"
	DefaultEnv    = "dev"
)

// StagingConfig names the staging destination of a profile.
type StagingConfig struct {
	Destination string         `koanf:"destination"`
	Dataset     string         `koanf:"dataset"`
	Settings    map[string]any `koanf:"settings"`
}

// Config is a resolved dlt profile: which destination to read, which
// dataset, and the per-destination connection settings.
type Config struct {
	// Destination is the destination type to read from.
	Destination string `koanf:"destination"`

	// Dataset is the dataset (schema namespace) to read.
	Dataset string `koanf:"dataset"`

	// SchemaName optionally names the stored schema to load; empty
	// means the newest stored schema.
	SchemaName string `koanf:"schema_name"`

	// Destinations holds connection settings keyed by destination type.
	Destinations map[string]map[string]any `koanf:"destinations"`

	// Staging optionally names a staging destination.
	Staging *StagingConfig `koanf:"staging"`

	Environment string `koanf:"environment"`
	Output      string `koanf:"output"`
	Verbose     bool   `koanf:"verbose"`
}

// SettingsFor returns the connection settings for a destination type,
// nil when the profile has none.
func (c *Config) SettingsFor(destinationType string) map[string]any {
	if c.Destinations == nil {
		return nil
	}
	return c.Destinations[destinationType]
}

// Validate checks that the profile names a registered destination.
func (c *Config) Validate() error {
	if c.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if !destination.IsRegistered(c.Destination) {
		return &destination.UnknownDestinationError{
			Type:      c.Destination,
			Available: destination.List(),
		}
	}
	if c.Staging != nil && c.Staging.Destination != "" && !destination.IsRegistered(c.Staging.Destination) {
		return &destination.UnknownDestinationError{
			Type:      c.Staging.Destination,
			Available: destination.List(),
		}
	}
	return nil
}
