// Package destination provides the destination registry, client
// contracts and the resolver that pairs a destination client with an
// optional staging client for a dataset.
package destination

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/trymzet/dlt/pkg/schema"
)

// Client is a destination-bound handle constructed by a destination
// factory against a schema.
type Client interface {
	// DestinationType returns the registered destination type name.
	DestinationType() string

	// Config returns the configuration the client was built from.
	Config() ClientConfig

	// Close releases the client's resources.
	Close() error
}

// SQLClient is the query-capable client surface: it can open a session,
// execute SQL and expose the dialect rules relations need to synthesize
// queries.
type SQLClient interface {
	Client

	// Open establishes the underlying session. Idempotent.
	Open(ctx context.Context) error

	// ExecuteQuery runs a query and returns its result stream. The
	// caller owns the rows and must close them.
	ExecuteQuery(ctx context.Context, query string) (*sql.Rows, error)

	// QualifiedTableName qualifies a normalized table path with the
	// dataset the client is bound to, quoted per the dialect.
	QualifiedTableName(tablePath string) string

	// EscapeColumn escapes a normalized column name per the dialect.
	EscapeColumn(name string) string

	// Dialect returns the client's SQL dialect settings.
	Dialect() Dialect
}

// WithSQLClient marks clients that can hand out a query-capable client.
// Destinations without it (e.g. filesystem staging) cannot back a
// readable dataset.
type WithSQLClient interface {
	SQLClient() SQLClient
}

// StateReader marks clients that can read persisted schema state from
// the destination. name == "" requests the most recently stored schema.
// A nil StoredSchema with a nil error means nothing is stored.
type StateReader interface {
	GetStoredSchema(ctx context.Context, name string) (*schema.StoredSchema, error)
}

// StreamingSessionSetup marks clients whose backend needs a session
// tweak before cursor-based streaming reads work (e.g. disabling
// implicit transaction autocommit). Relations call it when opening a
// cursor.
type StreamingSessionSetup interface {
	SetupStreamingSession(ctx context.Context) error
}

// Destination resolves a reference to a concrete client implementation
// and its configuration spec type.
type Destination interface {
	// Type returns the destination type name used in references.
	Type() string

	// Spec returns a new, empty configuration spec for this destination.
	Spec() ClientConfig

	// Extra names the installable extra providing this destination's
	// driver, reported by MissingDependencyError.
	Extra() string

	// Client constructs a client bound to the given schema and
	// configuration. A nil logger means discard.
	Client(sch *schema.Schema, cfg ClientConfig, logger *slog.Logger) (Client, error)
}
