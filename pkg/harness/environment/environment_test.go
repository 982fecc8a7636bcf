package environment_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluralsh/scan-harness/pkg/harness/environment"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
)

func TestSetup(t *testing.T) {
	dir := t.TempDir()

	env, err := environment.New(environment.WithWorkingDir(dir), environment.WithBuildNumber("42"))
	require.NoError(t, err)
	require.NoError(t, env.Setup())

	assert.Equal(t, filepath.Join(dir, "HubScanLogs", "42"), env.LogDir())
	info, err := os.Stat(env.LogDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSetupMissingWorkingDir(t *testing.T) {
	env, err := environment.New(environment.WithWorkingDir(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)

	err = env.Setup()
	assert.True(t, errors.Is(err, internalerrors.ErrConfiguration))
}

func TestNewRequiresWorkingDir(t *testing.T) {
	_, err := environment.New()
	assert.True(t, errors.Is(err, internalerrors.ErrConfiguration))
}

func TestDefaultBuildNumber(t *testing.T) {
	dir := t.TempDir()
	env, err := environment.New(environment.WithWorkingDir(dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "HubScanLogs", "0"), env.LogDir())
}

func TestPluginVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		plugin   string
		expected string
	}{
		{name: "configured version wins", version: "3.0.0", plugin: "hub-teamcity-2.0.0", expected: "3.0.0"},
		{name: "derived from name", plugin: "hub-teamcity-2.1.0", expected: "2.1.0"},
		{name: "derived snapshot", plugin: "hub-teamcity-2.1.0-SNAPSHOT", expected: "2.1.0-SNAPSHOT"},
		{name: "name without separator", plugin: "plugin", expected: "plugin"},
		{name: "nothing configured", expected: "unknown"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, environment.PluginVersion(test.version, test.plugin))
		})
	}
}

func TestHostname(t *testing.T) {
	assert.NotEmpty(t, environment.Hostname())
}
