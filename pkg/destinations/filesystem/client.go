// Package filesystem provides the filesystem staging destination.
// It holds load files for load-through-staging setups; it cannot
// execute SQL, so it cannot back a readable dataset by itself.
package filesystem

import (
	"fmt"
	"log/slog"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

// Config is the filesystem destination configuration. It is staging
// capable: warehouse destinations with an attachable staging section
// embed it before their own client is constructed.
type Config struct {
	destination.DwhConfig `mapstructure:",squash"`

	// BucketURL is the staging location, e.g. "file:///tmp/staging" or
	// an object-store URL understood by the loader.
	BucketURL string `mapstructure:"bucket_url"`

	// Layout is the file layout template within the bucket.
	Layout string `mapstructure:"layout"`
}

// Client is the filesystem destination client. It intentionally does
// not implement destination.SQLClient.
type Client struct {
	cfg    *Config
	sch    *schema.Schema
	logger *slog.Logger
}

// DestinationType implements destination.Client.
func (c *Client) DestinationType() string {
	return "filesystem"
}

// Config implements destination.Client.
func (c *Client) Config() destination.ClientConfig {
	return c.cfg
}

// Close implements destination.Client.
func (c *Client) Close() error {
	return nil
}

// BucketURL returns the staging location.
func (c *Client) BucketURL() string {
	return c.cfg.BucketURL
}

// Destination is the filesystem destination factory.
type Destination struct{}

// New creates the filesystem destination factory.
func New() Destination {
	return Destination{}
}

// Type implements destination.Destination.
func (Destination) Type() string { return "filesystem" }

// Extra implements destination.Destination.
func (Destination) Extra() string { return "filesystem" }

// Spec implements destination.Destination.
func (Destination) Spec() destination.ClientConfig {
	return &Config{DwhConfig: destination.DwhConfig{Type: "filesystem"}}
}

// Client implements destination.Destination.
func (d Destination) Client(sch *schema.Schema, cfg destination.ClientConfig, logger *slog.Logger) (destination.Client, error) {
	conf, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("filesystem destination got %T config", cfg)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{cfg: conf, sch: sch, logger: logger}, nil
}

var _ destination.Destination = Destination{}
