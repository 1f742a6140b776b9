package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

// test destinations are registered in the process-wide registry, so
// every test uses a unique destination type name
var fakeSeq atomic.Int64

func uniqueType(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, fakeSeq.Add(1))
}

type fakeDestination struct {
	typ   string
	extra string
	build func(sch *schema.Schema, cfg destination.ClientConfig) (destination.Client, error)

	builds atomic.Int64
}

func (d *fakeDestination) Type() string  { return d.typ }
func (d *fakeDestination) Extra() string { return d.extra }

func (d *fakeDestination) Spec() destination.ClientConfig {
	return &destination.DwhWithStagingConfig{
		DwhConfig: destination.DwhConfig{Type: d.typ},
	}
}

func (d *fakeDestination) Client(sch *schema.Schema, cfg destination.ClientConfig, _ *slog.Logger) (destination.Client, error) {
	d.builds.Add(1)
	return d.build(sch, cfg)
}

func registerFake(t *testing.T, prefix string, build func(sch *schema.Schema, cfg destination.ClientConfig) (destination.Client, error)) *fakeDestination {
	t.Helper()
	d := &fakeDestination{typ: uniqueType(prefix), extra: "testdep", build: build}
	destination.Register(d)
	return d
}

// fakeClient is a query-capable in-memory client. The db field may be
// nil for tests that only synthesize SQL.
type fakeClient struct {
	typ     string
	cfg     destination.ClientConfig
	db      *sql.DB
	dialect destination.Dialect

	datasetName string

	opens   int
	closes  int
	openErr error
}

func newFakeClient(typ, datasetName string, cfg destination.ClientConfig, db *sql.DB) *fakeClient {
	return &fakeClient{
		typ:         typ,
		cfg:         cfg,
		db:          db,
		datasetName: datasetName,
		dialect:     destination.Dialect{Name: "fake", DefaultSchema: "main", Quote: `"`},
	}
}

func (c *fakeClient) DestinationType() string          { return c.typ }
func (c *fakeClient) Config() destination.ClientConfig { return c.cfg }
func (c *fakeClient) Dialect() destination.Dialect     { return c.dialect }

func (c *fakeClient) Open(_ context.Context) error {
	c.opens++
	return c.openErr
}

func (c *fakeClient) Close() error {
	c.closes++
	return nil
}

func (c *fakeClient) ExecuteQuery(ctx context.Context, query string) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query)
}

func (c *fakeClient) QualifiedTableName(tablePath string) string {
	return c.dialect.QuoteIdentifier(c.datasetName) + "." + c.dialect.QuoteIdentifier(tablePath)
}

func (c *fakeClient) EscapeColumn(name string) string {
	return c.dialect.QuoteIdentifier(name)
}

// fakeStateClient adds persisted schema state to fakeClient.
type fakeStateClient struct {
	*fakeClient

	stored    map[string]*schema.StoredSchema
	storedErr error
	lookups   []string
}

func (c *fakeStateClient) GetStoredSchema(_ context.Context, name string) (*schema.StoredSchema, error) {
	c.lookups = append(c.lookups, name)
	if c.storedErr != nil {
		return nil, c.storedErr
	}
	return c.stored[name], nil
}

// fakeStreamClient tracks streaming session setup calls.
type fakeStreamClient struct {
	*fakeClient

	streamSetups int
}

func (c *fakeStreamClient) SetupStreamingSession(_ context.Context) error {
	c.streamSetups++
	return nil
}

// fakeBlobClient has no SQL surface at all.
type fakeBlobClient struct {
	typ string
	cfg destination.ClientConfig
}

func (c *fakeBlobClient) DestinationType() string          { return c.typ }
func (c *fakeBlobClient) Config() destination.ClientConfig { return c.cfg }
func (c *fakeBlobClient) Close() error                     { return nil }

// storedSchemaFor serializes a schema into a stored-schema row.
func storedSchemaFor(t *testing.T, sch *schema.Schema, version int) *schema.StoredSchema {
	t.Helper()
	payload, err := sch.ToJSON()
	if err != nil {
		t.Fatalf("encode schema: %v", err)
	}
	return &schema.StoredSchema{Name: sch.Name(), Version: version, Payload: payload}
}

// ordersSchema is the schema used across relation tests.
func ordersSchema(name string) *schema.Schema {
	sch := schema.New(name)
	sch.AddTable(schema.NewTable("orders",
		schema.Column{Name: "id", DataType: "bigint"},
		schema.Column{Name: "customer_name", DataType: "text", Nullable: true},
		schema.Column{Name: "total", DataType: "double", Nullable: true},
	))
	return sch
}
