package environment

import (
	"fmt"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/helpers"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

func (in *environment) Setup() error {
	if !helpers.IsDir(in.dir) {
		return internalerrors.NewConfigurationErrorf("working directory %s does not exist", in.dir)
	}

	if err := helpers.EnsureDir(in.LogDir()); err != nil {
		return internalerrors.NewIntegrationError(fmt.Sprintf("could not create log directory %s", in.LogDir()), err)
	}

	klog.V(log.LogLevelExtended).InfoS("environment ready", "dir", in.dir, "logDir", in.LogDir())
	return nil
}

func (in *environment) LogDir() string {
	return filepath.Join(in.dir, LogDirName, in.buildNumber)
}

func (in *environment) WorkingDir() string {
	return in.dir
}

func (in *environment) init() (Environment, error) {
	if len(in.dir) == 0 {
		return nil, internalerrors.NewConfigurationError("working directory must be provided")
	}

	dir, err := filepath.Abs(in.dir)
	if err != nil {
		return nil, internalerrors.NewConfigurationErrorf("could not resolve working directory: %s", err)
	}
	in.dir = dir

	if len(in.buildNumber) == 0 {
		in.buildNumber = "0"
	}

	return in, nil
}

func New(options ...Option) (Environment, error) {
	result := new(environment)

	for _, option := range options {
		option(result)
	}

	return result.init()
}
