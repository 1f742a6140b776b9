// Package sqlite provides the SQLite destination.
package sqlite

import (
	"fmt"
	"log/slog"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"

	_ "modernc.org/sqlite" // cgo-free sqlite driver
)

// Config is the SQLite destination configuration. SQLite is a
// single-dataset destination: it has no schema namespaces, so the
// configuration is constructed with no dataset binding.
type Config struct {
	// Path is the database file; ":memory:" or empty for in-memory.
	Path string `mapstructure:"path"`
}

// DestinationType implements destination.ClientConfig.
func (c *Config) DestinationType() string {
	return "sqlite"
}

// Client is the SQLite destination client.
type Client struct {
	destination.BaseSQLClient
	cfg *Config
}

// DestinationType implements destination.Client.
func (c *Client) DestinationType() string {
	return "sqlite"
}

// Config implements destination.Client.
func (c *Client) Config() destination.ClientConfig {
	return c.cfg
}

// SQLClient implements destination.WithSQLClient.
func (c *Client) SQLClient() destination.SQLClient {
	return c
}

// Destination is the SQLite destination factory.
type Destination struct{}

// New creates the SQLite destination factory.
func New() Destination {
	return Destination{}
}

// Type implements destination.Destination.
func (Destination) Type() string { return "sqlite" }

// Extra implements destination.Destination.
func (Destination) Extra() string { return "sqlite" }

// Spec implements destination.Destination.
func (Destination) Spec() destination.ClientConfig {
	return &Config{}
}

// Client implements destination.Destination.
func (d Destination) Client(sch *schema.Schema, cfg destination.ClientConfig, logger *slog.Logger) (destination.Client, error) {
	conf, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("sqlite destination got %T config", cfg)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path := conf.Path
	if path == "" {
		path = ":memory:"
	}

	return &Client{
		cfg: conf,
		BaseSQLClient: destination.BaseSQLClient{
			Sch:             sch,
			Logger:          logger,
			DriverName:      "sqlite",
			DSN:             path,
			SupportsSchemas: false,
			Dlct: destination.Dialect{
				Name:          "sqlite",
				DefaultSchema: "main",
				Quote:         `"`,
				Limit:         destination.LimitSuffix,
			},
		},
	}, nil
}

var (
	_ destination.Destination = Destination{}
	_ destination.SQLClient   = (*Client)(nil)
	_ destination.StateReader = (*Client)(nil)
)
