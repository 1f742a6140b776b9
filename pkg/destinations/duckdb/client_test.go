package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

func TestDestinationRegistered(t *testing.T) {
	assert.True(t, destination.IsRegistered("duckdb"))
}

func TestClientConstruction(t *testing.T) {
	cfg, err := destination.InitialConfig(New(), "sales", "", false, map[string]any{
		"path": "/tmp/shop.duckdb",
	})
	require.NoError(t, err)

	duckCfg, ok := cfg.(*Config)
	require.True(t, ok)
	assert.Equal(t, "/tmp/shop.duckdb", duckCfg.Path)
	assert.Equal(t, "sales", duckCfg.DatasetName)

	client, err := New().Client(schema.New("shop"), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlClient := client.(destination.WithSQLClient).SQLClient()
	assert.Equal(t, `"sales"."orders"`, sqlClient.QualifiedTableName("orders"))

	prefix, suffix := sqlClient.Dialect().LimitClause(10)
	assert.Empty(t, prefix)
	assert.Equal(t, "LIMIT 10", suffix)
}

func TestConfigCarriesStaging(t *testing.T) {
	spec := New().Spec()
	attacher, ok := spec.(destination.StagingAttacher)
	require.True(t, ok)

	stagingCfg := &destination.DwhConfig{Type: "filesystem", Staging: true}
	attacher.AttachStaging(stagingCfg)

	duckCfg := spec.(*Config)
	assert.Same(t, stagingCfg, duckCfg.StagingConfig)
}
