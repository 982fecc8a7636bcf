package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pluralsh/scan-harness/pkg/harness/config"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/exec"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
)

const (
	// DefaultScanMemory in MB is used when no positive memory is configured.
	DefaultScanMemory = 4096

	FlagLogDir         = "--logDir"
	FlagStatusWriteDir = "--statusWriteDir"
	FlagDryRunWriteDir = "--dryRunWriteDir"

	// StatusDirName is the directory inside the log directory the CLI writes
	// scan summaries into.
	StatusDirName = "status"
)

// Invocation is a prepared scan CLI command. Args is the list used for the
// actual execution and must never be logged, use Masked instead.
type Invocation struct {
	Command string
	Args    []string
	// Dir the CLI is started in.
	Dir string
	// LogDir is the log directory passed to the CLI, empty if unsupported.
	LogDir string
}

// Masked returns the command line safe for logging.
func (in *Invocation) Masked() string {
	return fmt.Sprintf("%s %s", in.Command, exec.MaskedCommand(in.Args))
}

// WithLogDir returns a copy of the invocation with the log directory argument
// replaced by dir. The receiver is not modified.
func (in *Invocation) WithLogDir(dir string) *Invocation {
	args := append([]string{}, in.Args...)
	for i, arg := range args {
		if arg == FlagLogDir && i+1 < len(args) {
			args[i+1] = dir
		}
	}

	return &Invocation{Command: in.Command, Args: args, Dir: in.Dir, LogDir: dir}
}

// CommandBuilder assembles the scan CLI invocation from typed configuration.
type CommandBuilder struct {
	server *config.ServerConfig
	scan   *config.ScanConfig
	tools  Tools
	logger host.Logger

	logDir            string
	supportsLogOption bool
}

func NewCommandBuilder(server *config.ServerConfig, scan *config.ScanConfig, tools Tools, logger host.Logger) *CommandBuilder {
	return &CommandBuilder{
		server: server,
		scan:   scan,
		tools:  tools,
		logger: logger,
	}
}

// WithLogDir enables the log directory option when the server supports it.
func (in *CommandBuilder) WithLogDir(dir string, supported bool) *CommandBuilder {
	in.logDir = dir
	in.supportsLogOption = supported
	return in
}

// Build validates the tool locations and returns the invocation. It returns
// a ConfigurationError before anything is executed if a required path is
// missing.
func (in *CommandBuilder) Build() (*Invocation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	memory := in.scan.ScanMemory()
	if memory <= 0 {
		in.logger.Warn(fmt.Sprintf("No memory set for the HUB CLI. Will use the default memory, %d", DefaultScanMemory))
		memory = DefaultScanMemory
	}

	args := []string{
		"-Done-jar.silent=true",
		"-Done-jar.jar.path=" + in.tools.Cache,
	}
	args = append(args, in.proxyArgs()...)
	args = append(args, fmt.Sprintf("-Xmx%dm", memory), "-jar", in.tools.Jar)

	serverURL := in.server.URL()
	args = append(args,
		"--scheme", serverURL.Scheme,
		"--host", serverURL.Hostname(),
		"--username", in.server.Username(),
		"--port", port(serverURL.Scheme, serverURL.Port()),
		exec.FlagPassword, in.server.Password(),
	)

	logDir := ""
	if in.supportsLogOption && len(in.logDir) > 0 {
		logDir = in.logDir
		args = append(args, FlagLogDir, logDir)
		if !in.scan.DryRun() {
			args = append(args, FlagStatusWriteDir, filepath.Join(logDir, StatusDirName))
		}
	}

	if in.scan.DryRun() && len(in.logDir) > 0 {
		args = append(args, FlagDryRunWriteDir, in.logDir)
	}

	if in.scan.HasProject() {
		args = append(args, "--project", in.scan.ProjectName(), "--release", in.scan.Version())
	}

	args = append(args, in.scan.Targets()...)

	return &Invocation{
		Command: in.tools.Java,
		Args:    args,
		Dir:     in.scan.WorkingDirectory(),
		LogDir:  logDir,
	}, nil
}

func (in *CommandBuilder) validate() error {
	if isBlank(in.tools.Jar) {
		return internalerrors.NewConfigurationError("Please provide the Hub scan CLI.")
	}

	if !exists(in.tools.Jar) {
		return internalerrors.NewConfigurationError("The Hub scan CLI provided does not exist.")
	}

	if isBlank(in.tools.Cache) {
		return internalerrors.NewConfigurationError("Please provide the path for the CLI cache.")
	}

	if isBlank(in.tools.Java) {
		return internalerrors.NewConfigurationError("Please provide the java home directory.")
	}

	if !exists(in.tools.Java) {
		return internalerrors.NewConfigurationError("The Java home provided does not exist.")
	}

	return nil
}

func (in *CommandBuilder) proxyArgs() []string {
	proxy := in.server.Proxy()
	if proxy == nil {
		return nil
	}

	args := []string{
		"-Dhttp.proxyHost=" + proxy.Host(),
		"-Dhttp.proxyPort=" + strconv.Itoa(proxy.Port()),
	}

	if hosts := proxy.IgnoredHosts(); len(hosts) > 0 {
		args = append(args, "-Dhttp.nonProxyHosts="+strings.Join(hosts, "|"))
	}

	if proxy.HasCredentials() {
		args = append(args,
			"-Dhttp.proxyUser="+proxy.Username(),
			"-Dhttp.proxyPassword="+proxy.Password(),
		)
	}

	return args
}

func port(scheme, port string) string {
	if len(port) > 0 {
		return port
	}

	if scheme == "https" {
		return "443"
	}

	return "80"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isBlank(value string) bool {
	return len(strings.TrimSpace(value)) == 0
}
