package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

func TestDestinationRegistered(t *testing.T) {
	assert.True(t, destination.IsRegistered("sqlite"))
}

func TestConfigIsSingleDataset(t *testing.T) {
	// sqlite has no schema namespaces, so its config takes no dataset
	// binding and the dataset name never reaches the client
	spec := New().Spec()
	_, ok := spec.(destination.DatasetBinder)
	assert.False(t, ok)

	cfg, err := destination.InitialConfig(New(), "sales", "", false, map[string]any{
		"path": "/tmp/shop.db",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shop.db", cfg.(*Config).Path)
}

func TestClientUnqualifiedTableNames(t *testing.T) {
	client, err := New().Client(schema.New("shop"), &Config{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlClient := client.(destination.WithSQLClient).SQLClient()
	assert.Equal(t, `"orders"`, sqlClient.QualifiedTableName("orders"))
}
