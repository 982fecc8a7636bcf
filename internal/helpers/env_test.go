package helpers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluralsh/scan-harness/internal/helpers"
)

func TestGetPluralEnv(t *testing.T) {
	t.Setenv("PLRL_SCAN_TIMEOUT", "10m")

	assert.Equal(t, "10m", helpers.GetPluralEnv("SCAN_TIMEOUT", "0"))
	assert.Equal(t, "fallback", helpers.GetPluralEnv("NOT_SET_ANYWHERE", "fallback"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "HubScanLogs", "42")

	require.NoError(t, helpers.EnsureDir(dir))
	assert.True(t, helpers.IsDir(dir))
	assert.True(t, helpers.Exists(dir))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.True(t, helpers.Exists(file))
	assert.False(t, helpers.IsDir(file))
}
