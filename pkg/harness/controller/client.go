package controller

import (
	"fmt"
	"strings"

	"github.com/pluralsh/scan-harness/pkg/client"
	"github.com/pluralsh/scan-harness/pkg/harness/config"
)

// NewClient is the default ClientFactory. It applies the connection timeout
// and proxy settings of the server configuration and identifies the build
// server integration through the user agent.
func NewClient(server *config.ServerConfig, scan *config.ScanConfig) (client.Client, error) {
	options := []client.Option{
		client.WithCredentials(server.Username(), server.Password()),
		client.WithTimeout(server.Timeout()),
		client.WithUserAgent(UserAgent(scan)),
	}

	if proxy := server.Proxy(); proxy != nil {
		options = append(options, client.WithProxy(&client.ProxyOptions{
			Host:         proxy.Host(),
			Port:         proxy.Port(),
			Username:     proxy.Username(),
			Password:     proxy.Password(),
			IgnoredHosts: proxy.IgnoredHosts(),
		}))
	}

	return client.New(server.URL().String(), options...)
}

// UserAgent renders the third party and plugin identity, i.e.
// "TeamCity/2024.1 scan-harness/3.1.0". Unknown versions are left out.
func UserAgent(scan *config.ScanConfig) string {
	products := []string{product(scan.ThirdPartyName(), scan.ThirdPartyVersion())}
	if len(scan.PluginVersion()) > 0 {
		products = append(products, product(PluginName, scan.PluginVersion()))
	}

	return strings.Join(products, " ")
}

func product(name, version string) string {
	if len(version) == 0 {
		return name
	}

	return fmt.Sprintf("%s/%s", name, version)
}
