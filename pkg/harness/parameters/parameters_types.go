package parameters

// Recognized build parameter keys.
const (
	KeyServerURL           = "hub.url"
	KeyConnectionTimeout   = "hub.connection.timeout"
	KeyUsername            = "hub.user"
	KeyPassword            = "hub.pass"
	KeyPasswordLength      = "hub.pass.length"
	KeyProxyHost           = "hub.proxy.host"
	KeyProxyPort           = "hub.proxy.port"
	KeyNoProxyHosts        = "hub.no.proxy.hosts"
	KeyProxyUsername       = "hub.proxy.user"
	KeyProxyPassword       = "hub.proxy.pass"
	KeyProxyPasswordLength = "hub.proxy.pass.length"
	KeyProjectName         = "hub.project.name"
	KeyProjectVersion      = "hub.project.version"
	KeyDryRun              = "hub.dry.run"
	KeyScanMemory          = "hub.scan.memory"
	KeyScanTargets         = "hub.scan.targets"
	KeyGenerateRiskReport  = "hub.generate.risk.report"
	KeyMaxWaitTime         = "hub.max.wait.time.for.risk.report"
	KeyPluginName          = "hub.plugin.name"
	KeyPluginVersion       = "hub.plugin.version"

	KeyBuildNumber        = "build.number"
	KeyServerVersion      = "teamcity.version"
	KeyAgentToolsDir      = "teamcity.agent.tools.dir"
	KeyWorkingDir         = "teamcity.build.workingDir"
	KeyConfigPropertyFile = "teamcity.configuration.properties.file"
)

// Settings is a typed view of the merged build parameters.
// Connection related numeric values are kept as strings, they are validated
// by the config builders so that a malformed value can be reported
// together with its key.
type Settings struct {
	ServerURL           string `mapstructure:"hub.url"`
	ConnectionTimeout   string `mapstructure:"hub.connection.timeout"`
	Username            string `mapstructure:"hub.user"`
	Password            string `mapstructure:"hub.pass"`
	PasswordLength      string `mapstructure:"hub.pass.length"`
	ProxyHost           string `mapstructure:"hub.proxy.host"`
	ProxyPort           string `mapstructure:"hub.proxy.port"`
	NoProxyHosts        string `mapstructure:"hub.no.proxy.hosts"`
	ProxyUsername       string `mapstructure:"hub.proxy.user"`
	ProxyPassword       string `mapstructure:"hub.proxy.pass"`
	ProxyPasswordLength string `mapstructure:"hub.proxy.pass.length"`

	ProjectName        string `mapstructure:"hub.project.name"`
	ProjectVersion     string `mapstructure:"hub.project.version"`
	DryRun             bool   `mapstructure:"hub.dry.run"`
	ScanMemory         int    `mapstructure:"hub.scan.memory"`
	ScanTargets        string `mapstructure:"hub.scan.targets"`
	GenerateRiskReport bool   `mapstructure:"hub.generate.risk.report"`
	// MaxWaitTimeMinutes overrides the default bom wait time when positive.
	MaxWaitTimeMinutes int    `mapstructure:"hub.max.wait.time.for.risk.report"`
	PluginName         string `mapstructure:"hub.plugin.name"`
	PluginVersion      string `mapstructure:"hub.plugin.version"`

	BuildNumber   string `mapstructure:"build.number"`
	ServerVersion string `mapstructure:"teamcity.version"`
	AgentToolsDir string `mapstructure:"teamcity.agent.tools.dir"`
	WorkingDir    string `mapstructure:"teamcity.build.workingDir"`
}
