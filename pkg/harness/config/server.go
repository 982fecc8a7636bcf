package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
)

const (
	// DefaultConnectionTimeout is used when no connection timeout is configured.
	DefaultConnectionTimeout = 120 * time.Second
)

// ServerConfig describes how to reach the remote analysis service.
// It can only be created through ServerConfigBuilder and is never modified afterward.
type ServerConfig struct {
	url            *url.URL
	timeout        time.Duration
	username       string
	password       string
	passwordLength int
	proxy          *ProxyConfig
}

func (in ServerConfig) URL() *url.URL {
	u := *in.url
	return &u
}

func (in ServerConfig) Timeout() time.Duration {
	return in.timeout
}

func (in ServerConfig) Username() string {
	return in.username
}

func (in ServerConfig) Password() string {
	return in.password
}

// PasswordLength is the length of the original password as stored by the
// build server. It is only used to render masked values.
func (in ServerConfig) PasswordLength() int {
	return in.passwordLength
}

// Proxy returns nil when no proxy is configured.
func (in ServerConfig) Proxy() *ProxyConfig {
	return in.proxy
}

// Lines renders the configuration for the build log without any secrets.
func (in ServerConfig) Lines() []string {
	lines := []string{
		fmt.Sprintf("--> Hub Server Url : %s", in.url.String()),
		fmt.Sprintf("--> Hub User : %s", in.username),
		fmt.Sprintf("--> Hub Connection Timeout : %d", int(in.timeout.Seconds())),
	}

	if in.proxy != nil {
		lines = append(lines,
			fmt.Sprintf("--> Proxy Host : %s", in.proxy.Host()),
			fmt.Sprintf("--> Proxy Port : %d", in.proxy.Port()),
			fmt.Sprintf("--> No Proxy Hosts : %s", strings.Join(in.proxy.IgnoredHosts(), ",")),
			fmt.Sprintf("--> Proxy Username : %s", in.proxy.Username()),
		)
	}

	return lines
}

// ProxyConfig describes an optional HTTP proxy.
type ProxyConfig struct {
	host         string
	port         int
	ignoredHosts []string
	username     string
	password     string
}

func (in ProxyConfig) Host() string {
	return in.host
}

func (in ProxyConfig) Port() int {
	return in.port
}

func (in ProxyConfig) IgnoredHosts() []string {
	return append([]string{}, in.ignoredHosts...)
}

func (in ProxyConfig) Username() string {
	return in.username
}

func (in ProxyConfig) Password() string {
	return in.password
}

// Address returns host:port of the proxy.
func (in ProxyConfig) Address() string {
	return fmt.Sprintf("%s:%d", in.host, in.port)
}

// HasCredentials reports whether the proxy requires authentication.
func (in ProxyConfig) HasCredentials() bool {
	return len(in.username) > 0 && len(in.password) > 0
}

// ServerConfigBuilder collects raw, unvalidated values. Build validates them
// all at once and returns a ConfigurationError describing the first problem.
type ServerConfigBuilder struct {
	url                 string
	timeout             string
	username            string
	password            string
	passwordLength      string
	proxyHost           string
	proxyPort           string
	ignoredProxyHosts   string
	proxyUsername       string
	proxyPassword       string
	proxyPasswordLength string
}

func NewServerConfigBuilder() *ServerConfigBuilder {
	return &ServerConfigBuilder{}
}

func (in *ServerConfigBuilder) WithURL(url string) *ServerConfigBuilder {
	in.url = url
	return in
}

// WithTimeout sets the connection timeout in seconds.
func (in *ServerConfigBuilder) WithTimeout(timeout string) *ServerConfigBuilder {
	in.timeout = timeout
	return in
}

func (in *ServerConfigBuilder) WithCredentials(username, password string) *ServerConfigBuilder {
	in.username = username
	in.password = password
	return in
}

func (in *ServerConfigBuilder) WithPasswordLength(length string) *ServerConfigBuilder {
	in.passwordLength = length
	return in
}

func (in *ServerConfigBuilder) WithProxy(host, port, ignoredHosts string) *ServerConfigBuilder {
	in.proxyHost = host
	in.proxyPort = port
	in.ignoredProxyHosts = ignoredHosts
	return in
}

func (in *ServerConfigBuilder) WithProxyCredentials(username, password, passwordLength string) *ServerConfigBuilder {
	in.proxyUsername = username
	in.proxyPassword = password
	in.proxyPasswordLength = passwordLength
	return in
}

func (in *ServerConfigBuilder) Build() (*ServerConfig, error) {
	serverURL, err := in.parseURL()
	if err != nil {
		return nil, err
	}

	timeout, err := in.parseTimeout()
	if err != nil {
		return nil, err
	}

	if isBlank(in.username) {
		return nil, internalerrors.NewConfigurationError("no Hub username was found")
	}

	if isBlank(in.password) {
		return nil, internalerrors.NewConfigurationError("no Hub password was found")
	}

	proxy, err := in.buildProxy()
	if err != nil {
		return nil, err
	}

	return &ServerConfig{
		url:            serverURL,
		timeout:        timeout,
		username:       strings.TrimSpace(in.username),
		password:       in.password,
		passwordLength: lo.Ternary(toInt(in.passwordLength) > 0, toInt(in.passwordLength), len(in.password)),
		proxy:          proxy,
	}, nil
}

func (in *ServerConfigBuilder) parseURL() (*url.URL, error) {
	if isBlank(in.url) {
		return nil, internalerrors.NewConfigurationError("no Hub Url was found")
	}

	u, err := url.Parse(strings.TrimSpace(in.url))
	if err != nil {
		return nil, internalerrors.NewConfigurationErrorf("the Hub Url is not a valid URL: %s", err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) == 0 {
		return nil, internalerrors.NewConfigurationErrorf("the Hub Url is not a valid URL: %s", in.url)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

func (in *ServerConfigBuilder) parseTimeout() (time.Duration, error) {
	if isBlank(in.timeout) {
		return DefaultConnectionTimeout, nil
	}

	seconds, err := strconv.Atoi(strings.TrimSpace(in.timeout))
	if err != nil || seconds <= 0 {
		return 0, internalerrors.NewConfigurationErrorf("the Timeout must be a positive integer, got %q", in.timeout)
	}

	return time.Duration(seconds) * time.Second, nil
}

func (in *ServerConfigBuilder) buildProxy() (*ProxyConfig, error) {
	if isBlank(in.proxyHost) {
		if !isBlank(in.proxyPort) {
			if _, err := parsePort(in.proxyPort); err != nil {
				return nil, err
			}
		}

		return nil, nil
	}

	if isBlank(in.proxyPort) {
		return nil, internalerrors.NewConfigurationError("the proxy port must be set when a proxy host is configured")
	}

	port, err := parsePort(in.proxyPort)
	if err != nil {
		return nil, err
	}

	if isBlank(in.proxyUsername) != isBlank(in.proxyPassword) {
		return nil, internalerrors.NewConfigurationError("the proxy username and password must be set together")
	}

	return &ProxyConfig{
		host:         strings.TrimSpace(in.proxyHost),
		port:         port,
		ignoredHosts: splitHosts(in.ignoredProxyHosts),
		username:     strings.TrimSpace(in.proxyUsername),
		password:     in.proxyPassword,
	}, nil
}

func parsePort(value string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port <= 0 || port > 65535 {
		return 0, internalerrors.NewConfigurationErrorf("the proxy port must be a valid port number, got %q", value)
	}

	return port, nil
}

func splitHosts(value string) []string {
	return lo.FilterMap(strings.Split(value, ","), func(host string, _ int) (string, bool) {
		host = strings.TrimSpace(host)
		return host, len(host) > 0
	})
}

// toInt mirrors lenient numeric parsing: anything that is not a number is 0.
func toInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}

	return result
}

func isBlank(value string) bool {
	return len(strings.TrimSpace(value)) == 0
}
