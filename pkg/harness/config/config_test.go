package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluralsh/scan-harness/pkg/harness/config"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
)

func TestServerConfigBuilder(t *testing.T) {
	server, err := config.NewServerConfigBuilder().
		WithURL(" https://hub.example.com:8443/ ").
		WithCredentials(" sysadmin ", "blackduck").
		WithProxy("proxy.example.com", "3128", "localhost, ,*.internal").
		WithProxyCredentials("proxyuser", "proxypass", "").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "https://hub.example.com:8443", server.URL().String())
	assert.Equal(t, config.DefaultConnectionTimeout, server.Timeout())
	assert.Equal(t, "sysadmin", server.Username())
	assert.Equal(t, len("blackduck"), server.PasswordLength())
	require.NotNil(t, server.Proxy())
	assert.Equal(t, "proxy.example.com:3128", server.Proxy().Address())
	assert.Equal(t, []string{"localhost", "*.internal"}, server.Proxy().IgnoredHosts())
	assert.True(t, server.Proxy().HasCredentials())

	for _, line := range server.Lines() {
		assert.NotContains(t, line, "blackduck")
		assert.NotContains(t, line, "proxypass")
	}
}

func TestServerConfigBuilderTimeout(t *testing.T) {
	server, err := config.NewServerConfigBuilder().
		WithURL("http://hub").
		WithCredentials("user", "pass").
		WithTimeout("30").
		WithPasswordLength("12").
		Build()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, server.Timeout())
	assert.Equal(t, 12, server.PasswordLength())
	assert.Nil(t, server.Proxy())
}

func TestServerConfigBuilderInvalid(t *testing.T) {
	valid := func() *config.ServerConfigBuilder {
		return config.NewServerConfigBuilder().WithURL("https://hub").WithCredentials("user", "pass")
	}

	tests := []struct {
		name    string
		builder *config.ServerConfigBuilder
	}{
		{name: "missing url", builder: valid().WithURL("  ")},
		{name: "unsupported scheme", builder: valid().WithURL("ftp://hub")},
		{name: "url without host", builder: valid().WithURL("https://")},
		{name: "malformed timeout", builder: valid().WithTimeout("ten")},
		{name: "zero timeout", builder: valid().WithTimeout("0")},
		{name: "missing username", builder: valid().WithCredentials("", "pass")},
		{name: "missing password", builder: valid().WithCredentials("user", "")},
		{name: "proxy without port", builder: valid().WithProxy("proxy", "", "")},
		{name: "malformed proxy port", builder: valid().WithProxy("proxy", "http", "")},
		{name: "proxy port out of range", builder: valid().WithProxy("proxy", "70000", "")},
		{name: "malformed port without host", builder: valid().WithProxy("", "abc", "")},
		{name: "proxy username only", builder: valid().WithProxy("proxy", "3128", "").WithProxyCredentials("user", "", "")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server, err := test.builder.Build()
			assert.Nil(t, server)
			assert.ErrorIs(t, err, internalerrors.ErrConfiguration)
		})
	}
}

func TestScanConfigBuilder(t *testing.T) {
	dir := t.TempDir()

	scan, err := config.NewScanConfigBuilder().
		WithProject(" ui ", "1.0").
		WithWorkingDirectory(dir).
		WithTargets("src\r\n\n  \n/abs/target").
		WithScanMemory(-1).
		WithToolsDir(filepath.Join(dir, "tools")).
		WithThirdParty("", "2024.1").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "ui", scan.ProjectName())
	assert.True(t, scan.HasProject())
	assert.Equal(t, []string{filepath.Join(dir, "src"), "/abs/target"}, scan.Targets())
	assert.Equal(t, -1, scan.ScanMemory())
	assert.Equal(t, "0", scan.BuildNumber())
	assert.Equal(t, config.ThirdPartyName, scan.ThirdPartyName())
	assert.Equal(t, "2024.1", scan.ThirdPartyVersion())
}

func TestScanConfigBuilderDefaultTarget(t *testing.T) {
	dir := t.TempDir()

	scan, err := config.NewScanConfigBuilder().
		WithWorkingDirectory(dir).
		WithTargets(" \n\t\n").
		WithToolsDir(dir).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{dir}, scan.Targets())
	assert.False(t, scan.HasProject())
}

func TestScanConfigBuilderInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		builder *config.ScanConfigBuilder
	}{
		{name: "missing working directory", builder: config.NewScanConfigBuilder().WithToolsDir(dir)},
		{name: "missing tools directory", builder: config.NewScanConfigBuilder().WithWorkingDirectory(dir)},
		{name: "project without version", builder: config.NewScanConfigBuilder().WithWorkingDirectory(dir).WithToolsDir(dir).WithProject("ui", "")},
		{name: "version without project", builder: config.NewScanConfigBuilder().WithWorkingDirectory(dir).WithToolsDir(dir).WithProject("", "1.0")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.builder.Build()
			assert.ErrorIs(t, err, internalerrors.ErrConfiguration)
		})
	}
}

func TestParseTargets(t *testing.T) {
	assert.Equal(t, []string{"/work"}, config.ParseTargets("", "/work"))
	assert.Equal(t, []string{"/work/a", "/b"}, config.ParseTargets("a\r\n/b/../b\n", "/work"))
}

const document = `apiVersion: scan-harness/v1
kind: ServerConfig
spec:
  url: https://hub.example.com
  timeout: 60
  credentials:
    username: sysadmin
    password: blackduck
  proxy:
    host: proxy.example.com
    port: 3128
    ignoredHosts:
    - localhost
`

func TestParseServerConfigDocument(t *testing.T) {
	parsed, err := config.ParseServerConfigDocument([]byte(document))
	require.NoError(t, err)

	server, err := config.NewServerConfig(parsed, &parameters.Settings{})
	require.NoError(t, err)
	assert.Equal(t, "https://hub.example.com", server.URL().String())
	assert.Equal(t, 60*time.Second, server.Timeout())
	assert.Equal(t, "proxy.example.com", server.Proxy().Host())
	assert.Equal(t, []string{"localhost"}, server.Proxy().IgnoredHosts())

	data, err := config.NewServerConfigDocument(server).Marshal()
	require.NoError(t, err)
	reparsed, err := config.ParseServerConfigDocument(data)
	require.NoError(t, err)
	assert.Equal(t, parsed.Spec.URL, reparsed.Spec.URL)
	assert.Equal(t, parsed.Spec.Proxy.Port, reparsed.Spec.Proxy.Port)
}

func TestParseServerConfigDocumentInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown field":       document + "  extra: true\n",
		"unknown api version": "apiVersion: scan-harness/v2\nkind: ServerConfig\nspec:\n  url: https://hub\n",
		"unknown kind":        "apiVersion: scan-harness/v1\nkind: Other\nspec:\n  url: https://hub\n",
		"malformed":           "apiVersion: [",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseServerConfigDocument([]byte(data))
			assert.ErrorIs(t, err, internalerrors.ErrConfiguration)
		})
	}
}

func TestNewServerConfigParametersOverride(t *testing.T) {
	parsed, err := config.ParseServerConfigDocument([]byte(document))
	require.NoError(t, err)

	server, err := config.NewServerConfig(parsed, &parameters.Settings{
		ServerURL:         "https://other.example.com",
		ConnectionTimeout: "15",
		Password:          "secret",
		ProxyHost:         "  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://other.example.com", server.URL().String())
	assert.Equal(t, 15*time.Second, server.Timeout())
	assert.Equal(t, "sysadmin", server.Username())
	assert.Equal(t, "secret", server.Password())
	assert.Equal(t, "proxy.example.com", server.Proxy().Host())
}

func TestNewServerConfigWithoutDocument(t *testing.T) {
	_, err := config.NewServerConfig(nil, &parameters.Settings{Username: "user", Password: "pass"})
	assert.ErrorIs(t, err, internalerrors.ErrConfiguration)

	_, err = config.NewServerConfig(nil, &parameters.Settings{
		ServerURL:         "https://hub",
		Username:          "user",
		Password:          "pass",
		ConnectionTimeout: "soon",
	})
	assert.ErrorIs(t, err, internalerrors.ErrConfiguration)
}
