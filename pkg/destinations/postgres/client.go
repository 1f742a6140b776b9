// Package postgres provides the PostgreSQL destination.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Config is the PostgreSQL destination configuration. Postgres is
// multi-dataset capable and can carry a staging configuration.
type Config struct {
	destination.DwhWithStagingConfig `mapstructure:",squash"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN constructs the key=value connection string.
func (c *Config) DSN() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, c.Database, sslmode)
	if c.Username != "" {
		dsn += fmt.Sprintf(" user=%s", c.Username)
	}
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// Client is the PostgreSQL destination client.
type Client struct {
	destination.BaseSQLClient
	cfg *Config
}

// DestinationType implements destination.Client.
func (c *Client) DestinationType() string {
	return "postgres"
}

// Config implements destination.Client.
func (c *Client) Config() destination.ClientConfig {
	return c.cfg
}

// SQLClient implements destination.WithSQLClient.
func (c *Client) SQLClient() destination.SQLClient {
	return c
}

// SetupStreamingSession implements destination.StreamingSessionSetup.
// Server-side row streaming misbehaves inside implicit transactions, so
// the session is pinned to autocommit-like behavior before streaming
// reads.
func (c *Client) SetupStreamingSession(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("session not opened")
	}
	if _, err := c.DB.ExecContext(ctx, "SET idle_in_transaction_session_timeout = 0"); err != nil {
		return fmt.Errorf("setup streaming session: %w", err)
	}
	return nil
}

// Destination is the PostgreSQL destination factory.
type Destination struct{}

// New creates the PostgreSQL destination factory.
func New() Destination {
	return Destination{}
}

// Type implements destination.Destination.
func (Destination) Type() string { return "postgres" }

// Extra implements destination.Destination.
func (Destination) Extra() string { return "postgres" }

// Spec implements destination.Destination.
func (Destination) Spec() destination.ClientConfig {
	return &Config{DwhWithStagingConfig: destination.DwhWithStagingConfig{
		DwhConfig: destination.DwhConfig{Type: "postgres"},
	}}
}

// Client implements destination.Destination.
func (d Destination) Client(sch *schema.Schema, cfg destination.ClientConfig, logger *slog.Logger) (destination.Client, error) {
	conf, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("postgres destination got %T config", cfg)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		cfg: conf,
		BaseSQLClient: destination.BaseSQLClient{
			Sch:             sch,
			Logger:          logger,
			DriverName:      "pgx",
			DSN:             conf.DSN(),
			DatasetName:     conf.DatasetName,
			SupportsSchemas: true,
			Dlct: destination.Dialect{
				Name:              "postgres",
				DefaultSchema:     "public",
				Quote:             `"`,
				Limit:             destination.LimitSuffix,
				PlaceholderDollar: true,
			},
		},
	}, nil
}

var (
	_ destination.Destination           = Destination{}
	_ destination.SQLClient             = (*Client)(nil)
	_ destination.StateReader           = (*Client)(nil)
	_ destination.StreamingSessionSetup = (*Client)(nil)
)
