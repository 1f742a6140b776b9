package destination

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trymzet/dlt/pkg/schema"
)

// newBaseClient binds a BaseSQLClient to a dedicated sqlmock DSN so
// that Open goes through the real driver lookup path.
func newBaseClient(t *testing.T, datasetName string, supportsSchemas bool) (*BaseSQLClient, sqlmock.Sqlmock) {
	t.Helper()

	dsn := fmt.Sprintf("base_test_%s_%d", t.Name(), time.Now().UnixNano())
	db, mock, err := sqlmock.NewWithDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &BaseSQLClient{
		DriverName:      "sqlmock",
		DSN:             dsn,
		DatasetName:     datasetName,
		SupportsSchemas: supportsSchemas,
		Dlct:            Dialect{Name: "test", Quote: `"`},
	}, mock
}

func TestBaseOpenIdempotent(t *testing.T) {
	client, mock := newBaseClient(t, "sales", true)

	ctx := context.Background()
	require.NoError(t, client.Open(ctx))
	first := client.DB
	require.NotNil(t, first)

	require.NoError(t, client.Open(ctx))
	assert.Same(t, first, client.DB)

	mock.ExpectClose()
	require.NoError(t, client.Close())
	assert.Nil(t, client.DB)
	require.NoError(t, client.Close())
}

func TestBaseOpenDriverNotRegistered(t *testing.T) {
	client := &BaseSQLClient{DriverName: "no_such_driver", DSN: "x"}

	err := client.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDriverNotRegistered)
}

func TestBaseExecuteQueryRequiresOpen(t *testing.T) {
	client, _ := newBaseClient(t, "sales", true)

	_, err := client.ExecuteQuery(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not opened")
}

func TestBaseQualifiedTableName(t *testing.T) {
	tests := []struct {
		name            string
		datasetName     string
		supportsSchemas bool
		defaultSchema   string
		want            string
	}{
		{name: "dataset namespace", datasetName: "sales", supportsSchemas: true, want: `"sales"."orders"`},
		{name: "default schema fallback", supportsSchemas: true, defaultSchema: "main", want: `"main"."orders"`},
		{name: "no schema support", datasetName: "sales", supportsSchemas: false, want: `"orders"`},
		{name: "no namespace at all", supportsSchemas: true, want: `"orders"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &BaseSQLClient{
				DatasetName:     tt.datasetName,
				SupportsSchemas: tt.supportsSchemas,
				Dlct:            Dialect{Quote: `"`, DefaultSchema: tt.defaultSchema},
			}
			assert.Equal(t, tt.want, client.QualifiedTableName("orders"))
		})
	}
}

func TestBaseGetStoredSchema(t *testing.T) {
	client, mock := newBaseClient(t, "sales", true)
	ctx := context.Background()
	require.NoError(t, client.Open(ctx))

	payload, err := schema.New("shop").ToJSON()
	require.NoError(t, err)
	insertedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS "sales"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "sales"\."_dlt_version"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT schema_name, version, inserted_at, schema FROM "sales"\."_dlt_version" WHERE schema_name = \?`).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"schema_name", "version", "inserted_at", "schema"}).
			AddRow("shop", 4, insertedAt, payload))

	stored, err := client.GetStoredSchema(ctx, "shop")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "shop", stored.Name)
	assert.Equal(t, 4, stored.Version)
	assert.Equal(t, insertedAt, stored.InsertedAt)

	decoded, err := stored.Decode()
	require.NoError(t, err)
	assert.Equal(t, "shop", decoded.Name())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseGetStoredSchemaLatest(t *testing.T) {
	client, mock := newBaseClient(t, "sales", false)
	ctx := context.Background()
	require.NoError(t, client.Open(ctx))

	// no schema namespaces: plain table name and no CREATE SCHEMA
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "_dlt_version"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT schema_name, version, inserted_at, schema FROM "_dlt_version" ORDER BY inserted_at DESC LIMIT 1`).
		WillReturnError(sql.ErrNoRows)

	stored, err := client.GetStoredSchema(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, stored)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBasePutStoredSchema(t *testing.T) {
	client, mock := newBaseClient(t, "sales", true)
	ctx := context.Background()
	require.NoError(t, client.Open(ctx))

	sch := schema.New("shop")
	sch.AddTable(schema.NewTable("orders", schema.Column{Name: "id", DataType: "bigint"}))

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS "sales"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "sales"\."_dlt_version"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "sales"\."_dlt_version"`).
		WithArgs("shop", 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, client.PutStoredSchema(ctx, sch, 1))
	require.NoError(t, mock.ExpectationsWereMet())
}
