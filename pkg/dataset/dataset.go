// Package dataset provides lazy, read-only access to the tables of a
// destination dataset. A Dataset resolves schema metadata and a
// query-capable client on first use; Relations refine and materialize
// single-table or raw-query reads against it.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

// Type selects the dataset access implementation.
type Type string

// TypeDBAPI is the only implemented dataset type: reads go through the
// destination's SQL client.
const TypeDBAPI Type = "dbapi"

// Option configures a Dataset.
type Option func(*Dataset)

// WithSchema supplies a full schema; no destination-side schema lookup
// happens.
func WithSchema(sch *schema.Schema) Option {
	return func(d *Dataset) { d.providedSchema = sch }
}

// WithSchemaName names a stored schema to load from the destination.
func WithSchemaName(name string) Option {
	return func(d *Dataset) { d.schemaName = name }
}

// WithSettings supplies destination profile settings (credentials,
// paths) decoded into the destination's configuration spec.
func WithSettings(settings map[string]any) Option {
	return func(d *Dataset) { d.settings = settings }
}

// WithLogger sets the structured logger. Nil means discard.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dataset) { d.logger = logger }
}

// WithDatasetType selects the dataset access implementation.
func WithDatasetType(t Type) Option {
	return func(d *Dataset) { d.datasetType = t }
}

// WithStaging names a staging destination resolved alongside the
// destination client; its configuration is attached to the destination
// configuration when both sides support it. An empty datasetName
// defaults to the dataset's own name.
func WithStaging(destinationRef, datasetName string, settings map[string]any) Option {
	return func(d *Dataset) {
		d.stagingRef = destinationRef
		d.stagingDatasetName = datasetName
		d.stagingSettings = settings
	}
}

// Dataset is lazy access to the tables of a destination dataset.
// Schema and client resolution is deferred until first use and happens
// exactly once per instance.
type Dataset struct {
	dest        destination.Destination
	name        string
	datasetType Type

	providedSchema *schema.Schema
	schemaName     string
	settings       map[string]any
	logger         *slog.Logger

	stagingRef         string
	stagingDest        destination.Destination
	stagingDatasetName string
	stagingSettings    map[string]any

	resolveOnce sync.Once
	resolveErr  error
	sch         *schema.Schema
	client      destination.SQLClient
	ownerClient destination.Client
	staging     destination.Client
}

// New creates a Dataset for the named destination and dataset. The
// destination reference is resolved immediately; schema and client are
// resolved lazily on first access.
func New(destinationRef, datasetName string, opts ...Option) (*Dataset, error) {
	d := &Dataset{
		name:        datasetName,
		datasetType: TypeDBAPI,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.datasetType != TypeDBAPI {
		return nil, &UnsupportedDatasetTypeError{Type: d.datasetType}
	}

	dest, err := destination.FromReference(destinationRef)
	if err != nil {
		return nil, err
	}
	d.dest = dest

	if d.stagingRef != "" {
		staging, err := destination.FromReference(d.stagingRef)
		if err != nil {
			return nil, err
		}
		d.stagingDest = staging
	}
	return d, nil
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Schema resolves (once) and returns the dataset's schema. Never
// returns a nil schema with a nil error.
func (d *Dataset) Schema(ctx context.Context) (*schema.Schema, error) {
	if err := d.resolve(ctx); err != nil {
		return nil, err
	}
	return d.sch, nil
}

// SQLClient resolves (once) and returns the query-capable client.
func (d *Dataset) SQLClient(ctx context.Context) (destination.SQLClient, error) {
	if err := d.resolve(ctx); err != nil {
		return nil, err
	}
	return d.client, nil
}

// StagingClient resolves (once) and returns the staging client, nil
// when no staging destination is configured.
func (d *Dataset) StagingClient(ctx context.Context) (destination.Client, error) {
	if err := d.resolve(ctx); err != nil {
		return nil, err
	}
	return d.staging, nil
}

// Table returns a relation over the named table.
func (d *Dataset) Table(tableName string) *Relation {
	return &Relation{ds: d, tableName: tableName}
}

// Query returns a relation over a raw SQL query. Raw-query relations
// cannot be refined.
func (d *Dataset) Query(sqlText string) *Relation {
	return &Relation{ds: d, providedQuery: sqlText}
}

// resolve performs the one-time schema and client resolution.
// Precedence: explicit schema, then named stored schema, then the
// latest stored schema for the dataset, then an empty schema named
// after the dataset.
func (d *Dataset) resolve(ctx context.Context) error {
	d.resolveOnce.Do(func() {
		d.resolveErr = d.doResolve(ctx)
	})
	return d.resolveErr
}

// Close releases the resolved clients. It is a no-op before first use.
func (d *Dataset) Close() error {
	var firstErr error
	if d.ownerClient != nil {
		firstErr = d.ownerClient.Close()
		d.ownerClient = nil
		d.client = nil
	}
	if d.staging != nil {
		if err := d.staging.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.staging = nil
	}
	return firstErr
}

func (d *Dataset) doResolve(ctx context.Context) error {
	switch {
	case d.providedSchema != nil:
		// full schema given, nothing to look up
		d.sch = d.providedSchema

	case d.schemaName != "":
		// schema name given, resolve it from the destination by name
		sch, err := d.loadStoredSchema(ctx, schema.New(d.schemaName), d.schemaName)
		if err != nil {
			return err
		}
		if sch == nil {
			sch = schema.New(d.schemaName)
		}
		d.sch = sch

	default:
		// no schema hint, load the newest schema from the destination
		sch, err := d.loadStoredSchema(ctx, schema.New(d.name), "")
		if err != nil {
			return err
		}
		d.sch = sch
	}

	if d.sch == nil {
		d.sch = schema.New(d.name)
	}

	client, stagingClient, err := d.buildClients(d.sch)
	if err != nil {
		return err
	}
	sqlClient, ok := asSQLClient(client)
	if !ok {
		_ = client.Close()
		if stagingClient != nil {
			_ = stagingClient.Close()
		}
		return &destination.CapabilityError{
			DestinationType: d.dest.Type(),
			Capability:      "SQL query execution",
		}
	}
	d.ownerClient = client
	d.client = sqlClient
	d.staging = stagingClient

	d.logger.Debug("dataset resolved",
		slog.String("destination", d.dest.Type()),
		slog.String("dataset", d.name),
		slog.String("schema", d.sch.Name()))
	return nil
}

// loadStoredSchema builds a client against a placeholder schema, reads
// the stored schema (by name, or the latest when name is empty) if the
// client supports persisted state, and decodes it. Returns nil when
// nothing is stored or the client has no state capability.
func (d *Dataset) loadStoredSchema(ctx context.Context, placeholder *schema.Schema, name string) (*schema.Schema, error) {
	client, stagingClient, err := d.buildClients(placeholder)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Close()
		if stagingClient != nil {
			_ = stagingClient.Close()
		}
	}()

	reader, ok := client.(destination.StateReader)
	if !ok {
		return nil, nil
	}
	if opener, ok := asSQLClient(client); ok {
		if err := opener.Open(ctx); err != nil {
			return nil, err
		}
	}

	stored, err := reader.GetStoredSchema(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up stored schema: %w", err)
	}
	if stored == nil {
		return nil, nil
	}
	return stored.Decode()
}

// buildClients constructs the destination client (and the staging
// client, when configured) bound to the given schema through the
// shared resolver.
func (d *Dataset) buildClients(sch *schema.Schema) (destination.Client, destination.Client, error) {
	return destination.ResolveClients(sch, d.dest, d.name, destination.ResolveOptions{
		Settings:           d.settings,
		Staging:            d.stagingDest,
		StagingSettings:    d.stagingSettings,
		StagingDatasetName: d.stagingDatasetName,
		Logger:             d.logger,
	})
}

// asSQLClient unwraps the query-capable surface of a client.
func asSQLClient(c destination.Client) (destination.SQLClient, bool) {
	if provider, ok := c.(destination.WithSQLClient); ok {
		return provider.SQLClient(), true
	}
	sqlClient, ok := c.(destination.SQLClient)
	return sqlClient, ok
}
