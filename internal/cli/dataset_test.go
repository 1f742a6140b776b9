package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/trymzet/dlt/pkg/destinations/sqlite"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestPeekRequiresDestination(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCommand(t, "dataset", "peek", "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination is required")
}

func TestPeekRequiresDataset(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "dlt.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("destination: sqlite\n"), 0o644))
	t.Chdir(dir)

	_, err := runCommand(t, "dataset", "peek", "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset is required")
}

func TestUnknownDestinationFromFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCommand(t, "dataset", "schema", "--destination", "teradata", "--dataset", "sales")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown destination")
}
