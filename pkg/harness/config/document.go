package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
)

const (
	APIVersionV1     = "scan-harness/v1"
	KindServerConfig = "ServerConfig"
)

// ServerConfigDocument is the persisted form of the server configuration.
// The schema is versioned by APIVersion and decoded strictly so that
// unknown fields are rejected.
type ServerConfigDocument struct {
	APIVersion string           `json:"apiVersion"`
	Kind       string           `json:"kind"`
	Spec       ServerConfigSpec `json:"spec"`
}

type ServerConfigSpec struct {
	URL string `json:"url"`
	// Timeout in seconds.
	Timeout     int              `json:"timeout,omitempty"`
	Credentials CredentialsSpec  `json:"credentials"`
	Proxy       *ProxyConfigSpec `json:"proxy,omitempty"`
}

type CredentialsSpec struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	PasswordLength int    `json:"passwordLength,omitempty"`
}

type ProxyConfigSpec struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	IgnoredHosts   []string `json:"ignoredHosts,omitempty"`
	Username       string   `json:"username,omitempty"`
	Password       string   `json:"password,omitempty"`
	PasswordLength int      `json:"passwordLength,omitempty"`
}

// LoadServerConfigDocument reads and validates the document header.
func LoadServerConfigDocument(path string) (*ServerConfigDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerrors.NewConfigurationErrorf("could not read server config %s: %s", path, err)
	}

	return ParseServerConfigDocument(data)
}

func ParseServerConfigDocument(data []byte) (*ServerConfigDocument, error) {
	document := new(ServerConfigDocument)
	if err := yaml.UnmarshalStrict(data, document); err != nil {
		return nil, internalerrors.NewConfigurationErrorf("could not parse server config: %s", err)
	}

	if document.APIVersion != APIVersionV1 {
		return nil, internalerrors.NewConfigurationErrorf("unsupported server config apiVersion %q, expected %q", document.APIVersion, APIVersionV1)
	}

	if document.Kind != KindServerConfig {
		return nil, internalerrors.NewConfigurationErrorf("unsupported server config kind %q, expected %q", document.Kind, KindServerConfig)
	}

	return document, nil
}

// Marshal renders the document in its persisted YAML form.
func (in *ServerConfigDocument) Marshal() ([]byte, error) {
	return yaml.Marshal(in)
}

// NewServerConfigDocument converts a validated configuration back to its persisted form.
func NewServerConfigDocument(config *ServerConfig) *ServerConfigDocument {
	document := &ServerConfigDocument{
		APIVersion: APIVersionV1,
		Kind:       KindServerConfig,
		Spec: ServerConfigSpec{
			URL:     config.URL().String(),
			Timeout: int(config.Timeout().Seconds()),
			Credentials: CredentialsSpec{
				Username:       config.Username(),
				Password:       config.Password(),
				PasswordLength: config.PasswordLength(),
			},
		},
	}

	if proxy := config.Proxy(); proxy != nil {
		document.Spec.Proxy = &ProxyConfigSpec{
			Host:         proxy.Host(),
			Port:         proxy.Port(),
			IgnoredHosts: proxy.IgnoredHosts(),
			Username:     proxy.Username(),
			Password:     proxy.Password(),
		}
	}

	return document
}

// NewServerConfig builds the server configuration from build parameters.
// Values from the optional document are used as a base, non-blank parameters
// override them.
func NewServerConfig(document *ServerConfigDocument, settings *parameters.Settings) (*ServerConfig, error) {
	builder := NewServerConfigBuilder()
	if document != nil {
		spec := document.Spec
		builder.WithURL(spec.URL).
			WithTimeout(positive(spec.Timeout)).
			WithCredentials(spec.Credentials.Username, spec.Credentials.Password).
			WithPasswordLength(positive(spec.Credentials.PasswordLength))

		if spec.Proxy != nil {
			builder.WithProxy(spec.Proxy.Host, positive(spec.Proxy.Port), joinHosts(spec.Proxy.IgnoredHosts)).
				WithProxyCredentials(spec.Proxy.Username, spec.Proxy.Password, positive(spec.Proxy.PasswordLength))
		}
	}

	override(&builder.url, settings.ServerURL)
	override(&builder.timeout, settings.ConnectionTimeout)
	override(&builder.username, settings.Username)
	override(&builder.password, settings.Password)
	override(&builder.passwordLength, settings.PasswordLength)
	override(&builder.proxyHost, settings.ProxyHost)
	override(&builder.proxyPort, settings.ProxyPort)
	override(&builder.ignoredProxyHosts, settings.NoProxyHosts)
	override(&builder.proxyUsername, settings.ProxyUsername)
	override(&builder.proxyPassword, settings.ProxyPassword)
	override(&builder.proxyPasswordLength, settings.ProxyPasswordLength)

	return builder.Build()
}

func override(target *string, value string) {
	if !isBlank(value) {
		*target = value
	}
}

func positive(value int) string {
	if value <= 0 {
		return ""
	}

	return strconv.Itoa(value)
}

func joinHosts(hosts []string) string {
	return strings.Join(hosts, ",")
}

func (in *ServerConfigDocument) String() string {
	return fmt.Sprintf("%s/%s %s", in.APIVersion, in.Kind, in.Spec.URL)
}
