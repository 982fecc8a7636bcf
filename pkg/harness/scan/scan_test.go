package scan_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pluralsh/scan-harness/pkg/harness/config"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/scan"
)

// setupTools creates a fake CLI distribution in dir. The java executable is a
// shell script with the provided body.
func setupTools(t *testing.T, dir, javaScript string) scan.Tools {
	home := filepath.Join(dir, "scan.cli-3.1.0")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "lib"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "jre", "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "lib", "scan.cli-3.1.0-standalone.jar"), []byte("jar"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(home, "jre", "bin", "java"), []byte("#!/bin/sh\n"+javaScript), 0755))

	tools, err := scan.LocateTools(dir)
	require.NoError(t, err)
	return tools
}

func serverConfig(t *testing.T, proxy bool) *config.ServerConfig {
	builder := config.NewServerConfigBuilder().
		WithURL("https://hub.example.com").
		WithCredentials("sysadmin", "blackduck")

	if proxy {
		builder.WithProxy("proxy.example.com", "3128", "localhost, *.internal").
			WithProxyCredentials("proxyuser", "proxypass", "")
	}

	server, err := builder.Build()
	require.NoError(t, err)
	return server
}

func scanConfig(t *testing.T, workingDir string, dryRun bool, memory int) *config.ScanConfig {
	scanConfig, err := config.NewScanConfigBuilder().
		WithProject("project", "1.0").
		WithWorkingDirectory(workingDir).
		WithTargets("src\n\n/abs/target").
		WithDryRun(dryRun).
		WithScanMemory(memory).
		WithToolsDir(filepath.Join(workingDir, "tools")).
		Build()
	require.NoError(t, err)
	return scanConfig
}

func newLogger() (host.Logger, *bytes.Buffer) {
	out := new(bytes.Buffer)
	return host.NewTeamCity(out), out
}
