package destination

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/trymzet/dlt/pkg/schema"
)

// VersionTableName is the state table destinations persist schemas in.
const VersionTableName = "_dlt_version"

// BaseSQLClient provides common database/sql functionality for
// destination clients. Embed it in concrete clients to get standard
// Open, Close, ExecuteQuery, name qualification and stored-schema
// reads.
type BaseSQLClient struct {
	DB     *sql.DB
	Sch    *schema.Schema
	Logger *slog.Logger

	// DriverName and DSN describe the database/sql driver binding.
	DriverName string
	DSN        string

	// DatasetName qualifies table names; empty for single-dataset
	// destinations.
	DatasetName string

	// SupportsSchemas reports whether the backend has schema
	// namespaces the dataset name maps onto.
	SupportsSchemas bool

	Dlct Dialect
}

// Open establishes the connection. Idempotent.
func (b *BaseSQLClient) Open(ctx context.Context) error {
	if b.DB != nil {
		return nil
	}
	if !slices.Contains(sql.Drivers(), b.DriverName) {
		return fmt.Errorf("driver %q: %w", b.DriverName, ErrDriverNotRegistered)
	}

	db, err := sql.Open(b.DriverName, b.DSN)
	if err != nil {
		return fmt.Errorf("open %s connection: %w", b.DriverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping %s: %w", b.DriverName, err)
	}

	if b.Logger != nil {
		b.Logger.Debug("session opened", slog.String("driver", b.DriverName))
	}
	b.DB = db
	return nil
}

// Close closes the connection.
func (b *BaseSQLClient) Close() error {
	if b.DB == nil {
		return nil
	}
	err := b.DB.Close()
	b.DB = nil
	return err
}

// ExecuteQuery runs a query and returns its result stream.
func (b *BaseSQLClient) ExecuteQuery(ctx context.Context, query string) (*sql.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("session not opened")
	}
	//nolint:rowserrcheck // rows.Err() is checked by the cursor after iteration
	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	return rows, nil
}

// Dialect returns the client's dialect settings.
func (b *BaseSQLClient) Dialect() Dialect {
	return b.Dlct
}

// QualifiedTableName qualifies a normalized table path with the bound
// dataset (or the dialect's default schema), quoted per the dialect.
func (b *BaseSQLClient) QualifiedTableName(tablePath string) string {
	ns := b.DatasetName
	if ns == "" {
		ns = b.Dlct.DefaultSchema
	}
	if !b.SupportsSchemas || ns == "" {
		return b.Dlct.QuoteIdentifier(tablePath)
	}
	return b.Dlct.QuoteIdentifier(ns) + "." + b.Dlct.QuoteIdentifier(tablePath)
}

// EscapeColumn escapes a normalized column name per the dialect.
func (b *BaseSQLClient) EscapeColumn(name string) string {
	return b.Dlct.QuoteIdentifier(name)
}

// GetStoredSchema implements StateReader over the version table.
// name == "" returns the most recently stored schema for any name;
// a nil result with nil error means nothing is stored yet.
func (b *BaseSQLClient) GetStoredSchema(ctx context.Context, name string) (*schema.StoredSchema, error) {
	if err := b.ensureVersionTable(ctx); err != nil {
		return nil, err
	}

	table := b.QualifiedTableName(VersionTableName)
	query := fmt.Sprintf(
		"SELECT schema_name, version, inserted_at, schema FROM %s ORDER BY inserted_at DESC LIMIT 1",
		table,
	)
	args := []any{}
	if name != "" {
		query = fmt.Sprintf(
			"SELECT schema_name, version, inserted_at, schema FROM %s WHERE schema_name = %s ORDER BY inserted_at DESC LIMIT 1",
			table, b.Dlct.FormatPlaceholder(1),
		)
		args = append(args, name)
	}

	row := b.DB.QueryRowContext(ctx, query, args...)
	var stored schema.StoredSchema
	var insertedAt time.Time
	var payload []byte
	err := row.Scan(&stored.Name, &stored.Version, &insertedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stored schema: %w", err)
	}
	stored.InsertedAt = insertedAt
	stored.Payload = payload
	return &stored, nil
}

// PutStoredSchema persists a schema version into the version table.
func (b *BaseSQLClient) PutStoredSchema(ctx context.Context, sch *schema.Schema, version int) error {
	if err := b.ensureVersionTable(ctx); err != nil {
		return err
	}
	payload, err := sch.ToJSON()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (schema_name, version, inserted_at, schema) VALUES (%s, %s, %s, %s)",
		b.QualifiedTableName(VersionTableName),
		b.Dlct.FormatPlaceholder(1), b.Dlct.FormatPlaceholder(2),
		b.Dlct.FormatPlaceholder(3), b.Dlct.FormatPlaceholder(4),
	)
	if _, err := b.DB.ExecContext(ctx, query, sch.Name(), version, time.Now().UTC(), payload); err != nil {
		return fmt.Errorf("store schema %q: %w", sch.Name(), err)
	}
	return nil
}

// ensureVersionTable creates the dataset namespace (when the backend
// has schema namespaces) and the version table if missing, through the
// destination's own dialect.
func (b *BaseSQLClient) ensureVersionTable(ctx context.Context) error {
	if b.DB == nil {
		return fmt.Errorf("session not opened")
	}
	if b.SupportsSchemas && b.DatasetName != "" {
		stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", b.Dlct.QuoteIdentifier(b.DatasetName))
		if _, err := b.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure dataset schema: %w", err)
		}
	}
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (schema_name TEXT NOT NULL, version INTEGER NOT NULL, inserted_at TIMESTAMP NOT NULL, schema TEXT NOT NULL)",
		b.QualifiedTableName(VersionTableName),
	)
	if _, err := b.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure version table: %w", err)
	}
	return nil
}
