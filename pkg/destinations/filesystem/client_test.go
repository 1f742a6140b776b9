package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

func TestDestinationRegistered(t *testing.T) {
	assert.True(t, destination.IsRegistered("filesystem"))
}

func TestClientHasNoSQLSurface(t *testing.T) {
	client, err := New().Client(schema.New("shop"), &Config{
		DwhConfig: destination.DwhConfig{Type: "filesystem"},
		BucketURL: "file:///tmp/staging",
	}, nil)
	require.NoError(t, err)

	_, isSQL := client.(destination.SQLClient)
	assert.False(t, isSQL)
	_, hasSQL := client.(destination.WithSQLClient)
	assert.False(t, hasSQL)

	fsClient := client.(*Client)
	assert.Equal(t, "file:///tmp/staging", fsClient.BucketURL())
}

func TestConfigIsStagingCapable(t *testing.T) {
	spec := New().Spec()
	staging, ok := spec.(destination.StagingCapable)
	require.True(t, ok)

	assert.False(t, staging.AsStaging())
	staging.MarkStaging()
	assert.True(t, staging.AsStaging())
}
