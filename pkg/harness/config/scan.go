package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
)

const (
	// ThirdPartyName identifies the CI integration to the remote service.
	ThirdPartyName = "TeamCity"
)

var targetSeparator = regexp.MustCompile(`\r?\n`)

// ScanConfig describes a single scan run. It is created by ScanConfigBuilder
// and never modified afterward.
type ScanConfig struct {
	projectName       string
	version           string
	workingDirectory  string
	targets           []string
	dryRun            bool
	scanMemory        int
	toolsDir          string
	buildNumber       string
	thirdPartyName    string
	thirdPartyVersion string
	pluginVersion     string
}

func (in ScanConfig) ProjectName() string {
	return in.projectName
}

func (in ScanConfig) Version() string {
	return in.version
}

func (in ScanConfig) WorkingDirectory() string {
	return in.workingDirectory
}

// Targets always contains at least one absolute path.
func (in ScanConfig) Targets() []string {
	return append([]string{}, in.targets...)
}

func (in ScanConfig) DryRun() bool {
	return in.dryRun
}

// ScanMemory is the raw configured memory in MB. It may be <= 0, in which case
// the command builder falls back to its default.
func (in ScanConfig) ScanMemory() int {
	return in.scanMemory
}

func (in ScanConfig) ToolsDir() string {
	return in.toolsDir
}

func (in ScanConfig) BuildNumber() string {
	return in.buildNumber
}

func (in ScanConfig) ThirdPartyName() string {
	return in.thirdPartyName
}

func (in ScanConfig) ThirdPartyVersion() string {
	return in.thirdPartyVersion
}

func (in ScanConfig) PluginVersion() string {
	return in.pluginVersion
}

// HasProject reports whether results are mapped to a project version.
func (in ScanConfig) HasProject() bool {
	return len(in.projectName) > 0 && len(in.version) > 0
}

type ScanConfigBuilder struct {
	config  ScanConfig
	targets string
}

func NewScanConfigBuilder() *ScanConfigBuilder {
	return &ScanConfigBuilder{
		config: ScanConfig{thirdPartyName: ThirdPartyName},
	}
}

func (in *ScanConfigBuilder) WithProject(name, version string) *ScanConfigBuilder {
	in.config.projectName = strings.TrimSpace(name)
	in.config.version = strings.TrimSpace(version)
	return in
}

func (in *ScanConfigBuilder) WithWorkingDirectory(dir string) *ScanConfigBuilder {
	in.config.workingDirectory = dir
	return in
}

// WithTargets accepts the newline delimited target list as configured by the user.
func (in *ScanConfigBuilder) WithTargets(targets string) *ScanConfigBuilder {
	in.targets = targets
	return in
}

func (in *ScanConfigBuilder) WithDryRun(dryRun bool) *ScanConfigBuilder {
	in.config.dryRun = dryRun
	return in
}

func (in *ScanConfigBuilder) WithScanMemory(memory int) *ScanConfigBuilder {
	in.config.scanMemory = memory
	return in
}

func (in *ScanConfigBuilder) WithToolsDir(dir string) *ScanConfigBuilder {
	in.config.toolsDir = dir
	return in
}

func (in *ScanConfigBuilder) WithBuildNumber(number string) *ScanConfigBuilder {
	in.config.buildNumber = number
	return in
}

func (in *ScanConfigBuilder) WithThirdParty(name, version string) *ScanConfigBuilder {
	if len(name) > 0 {
		in.config.thirdPartyName = name
	}
	in.config.thirdPartyVersion = version
	return in
}

func (in *ScanConfigBuilder) WithPluginVersion(version string) *ScanConfigBuilder {
	in.config.pluginVersion = version
	return in
}

func (in *ScanConfigBuilder) Build() (*ScanConfig, error) {
	if isBlank(in.config.workingDirectory) {
		return nil, internalerrors.NewConfigurationError("no working directory was provided")
	}

	workingDirectory, err := filepath.Abs(in.config.workingDirectory)
	if err != nil {
		return nil, internalerrors.NewConfigurationErrorf("could not resolve working directory: %s", err)
	}

	if len(in.config.projectName) > 0 && len(in.config.version) == 0 {
		return nil, internalerrors.NewConfigurationError("no Project Version was provided for the Project")
	}

	if len(in.config.version) > 0 && len(in.config.projectName) == 0 {
		return nil, internalerrors.NewConfigurationError("no Project Name was provided for the Project Version")
	}

	if isBlank(in.config.toolsDir) {
		return nil, internalerrors.NewConfigurationError("no tools directory was provided")
	}

	if len(in.config.buildNumber) == 0 {
		in.config.buildNumber = "0"
	}

	result := in.config
	result.workingDirectory = workingDirectory
	result.targets = ParseTargets(in.targets, workingDirectory)
	return &result, nil
}

// ParseTargets splits a newline delimited list of paths, skips blank entries and
// resolves every entry against the working directory. An empty list results in
// the working directory itself.
func ParseTargets(raw, workingDirectory string) []string {
	targets := lo.FilterMap(targetSeparator.Split(raw, -1), func(target string, _ int) (string, bool) {
		target = strings.TrimSpace(target)
		if len(target) == 0 {
			return "", false
		}

		if filepath.IsAbs(target) {
			return filepath.Clean(target), true
		}

		return filepath.Join(workingDirectory, target), true
	})

	if len(targets) == 0 {
		return []string{workingDirectory}
	}

	return targets
}
