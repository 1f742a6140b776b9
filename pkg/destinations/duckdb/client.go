// Package duckdb provides the DuckDB destination.
package duckdb

import (
	"fmt"
	"log/slog"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Config is the DuckDB destination configuration. DuckDB is
// multi-dataset capable and can carry a staging configuration.
type Config struct {
	destination.DwhWithStagingConfig `mapstructure:",squash"`

	// Path is the database file; empty means in-memory.
	Path string `mapstructure:"path"`
}

// Client is the DuckDB destination client.
type Client struct {
	destination.BaseSQLClient
	cfg *Config
}

// DestinationType implements destination.Client.
func (c *Client) DestinationType() string {
	return "duckdb"
}

// Config implements destination.Client.
func (c *Client) Config() destination.ClientConfig {
	return c.cfg
}

// SQLClient implements destination.WithSQLClient.
func (c *Client) SQLClient() destination.SQLClient {
	return c
}

// Destination is the DuckDB destination factory.
type Destination struct{}

// New creates the DuckDB destination factory.
func New() Destination {
	return Destination{}
}

// Type implements destination.Destination.
func (Destination) Type() string { return "duckdb" }

// Extra implements destination.Destination.
func (Destination) Extra() string { return "duckdb" }

// Spec implements destination.Destination.
func (Destination) Spec() destination.ClientConfig {
	return &Config{DwhWithStagingConfig: destination.DwhWithStagingConfig{
		DwhConfig: destination.DwhConfig{Type: "duckdb"},
	}}
}

// Client implements destination.Destination.
func (d Destination) Client(sch *schema.Schema, cfg destination.ClientConfig, logger *slog.Logger) (destination.Client, error) {
	conf, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("duckdb destination got %T config", cfg)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// go-duckdb opens an in-memory database for an empty DSN
	return &Client{
		cfg: conf,
		BaseSQLClient: destination.BaseSQLClient{
			Sch:             sch,
			Logger:          logger,
			DriverName:      "duckdb",
			DSN:             conf.Path,
			DatasetName:     conf.DatasetName,
			SupportsSchemas: true,
			Dlct: destination.Dialect{
				Name:          "duckdb",
				DefaultSchema: "main",
				Quote:         `"`,
				Limit:         destination.LimitSuffix,
			},
		},
	}, nil
}

var (
	_ destination.Destination   = Destination{}
	_ destination.SQLClient     = (*Client)(nil)
	_ destination.WithSQLClient = (*Client)(nil)
	_ destination.StateReader   = (*Client)(nil)
)
