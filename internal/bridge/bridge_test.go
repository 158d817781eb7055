package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvarga/stackctl/internal/provision"
)

func readyResult() *provision.Result {
	return &provision.Result{
		Address:     "10.0.0.5",
		AdminUser:   "azureuser",
		AdminSecret: "S3cr3t!",
		Ready:       true,
	}
}

func paths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "credentials.yaml"), filepath.Join(dir, "inventory.ini")
}

func TestBridge_Success(t *testing.T) {
	descPath, invPath := paths(t)

	desc, err := Bridge(readyResult(), descPath, invPath)
	require.NoError(t, err)

	assert.Equal(t, "ssh azureuser@10.0.0.5", desc.SSHCommand)
	assert.Contains(t, desc.SSHCommand, desc.AdminUser)
	assert.Contains(t, desc.SSHCommand, desc.Address)
	assert.NotEmpty(t, desc.SavedAt)
}

func TestBridge_ArtifactPermissions(t *testing.T) {
	descPath, invPath := paths(t)

	_, err := Bridge(readyResult(), descPath, invPath)
	require.NoError(t, err)

	for _, path := range []string{descPath, invPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), path)
	}
}

func TestBridge_RoundTrip(t *testing.T) {
	descPath, invPath := paths(t)

	written, err := Bridge(readyResult(), descPath, invPath)
	require.NoError(t, err)

	loaded, err := Load(descPath)
	require.NoError(t, err)
	assert.Equal(t, written.Address, loaded.Address)
	assert.Equal(t, written.AdminSecret, loaded.AdminSecret)
}

func TestBridge_NotReadyWritesNothing(t *testing.T) {
	descPath, invPath := paths(t)

	result := readyResult()
	result.Ready = false

	_, err := Bridge(result, descPath, invPath)

	var incomplete *IncompleteProvisionError
	require.ErrorAs(t, err, &incomplete)
	assert.NoFileExists(t, descPath)
	assert.NoFileExists(t, invPath)
}

func TestBridge_EmptyFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*provision.Result)
	}{
		{"empty address", func(r *provision.Result) { r.Address = "" }},
		{"empty user", func(r *provision.Result) { r.AdminUser = "" }},
		{"empty secret", func(r *provision.Result) { r.AdminSecret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descPath, invPath := paths(t)
			result := readyResult()
			tt.mutate(result)

			_, err := Bridge(result, descPath, invPath)

			var incomplete *IncompleteProvisionError
			assert.ErrorAs(t, err, &incomplete)
			assert.NoFileExists(t, descPath)
		})
	}
}

func TestBridge_NilResult(t *testing.T) {
	descPath, invPath := paths(t)
	_, err := Bridge(nil, descPath, invPath)
	var incomplete *IncompleteProvisionError
	assert.ErrorAs(t, err, &incomplete)
}

func TestDescriptorString_RedactsSecret(t *testing.T) {
	descPath, invPath := paths(t)
	desc, err := Bridge(readyResult(), descPath, invPath)
	require.NoError(t, err)

	assert.NotContains(t, desc.String(), "S3cr3t!")
	assert.Contains(t, desc.String(), "azureuser@10.0.0.5")
}

func TestBridge_InventoryContent(t *testing.T) {
	descPath, invPath := paths(t)
	_, err := Bridge(readyResult(), descPath, invPath)
	require.NoError(t, err)

	data, err := os.ReadFile(invPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[app]")
	assert.Contains(t, string(data), "10.0.0.5 ansible_user=azureuser")
}

func TestBridge_OverwritesExistingAtomically(t *testing.T) {
	descPath, invPath := paths(t)
	require.NoError(t, os.WriteFile(descPath, []byte("stale"), 0o600))

	_, err := Bridge(readyResult(), descPath, invPath)
	require.NoError(t, err)

	data, err := os.ReadFile(descPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "10.0.0.5")

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(descPath), "*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files must not survive a write")
}
