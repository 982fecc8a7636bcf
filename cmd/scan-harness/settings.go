package main

import (
	"os"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/cmd/scan-harness/args"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
	"github.com/pluralsh/scan-harness/pkg/log"
)

// loadSettings merges the build parameter sources in the order the build
// agent applies them: environment, system properties, configuration
// parameters and runner parameters.
func loadSettings() (*parameters.Settings, error) {
	system, err := readProperties(args.SystemPropertiesFile())
	if err != nil {
		return nil, err
	}

	configFile := args.ConfigPropertiesFile()
	if len(configFile) == 0 {
		configFile = system[parameters.KeyConfigPropertyFile]
	}

	configuration, err := readProperties(configFile)
	if err != nil {
		return nil, err
	}

	runner, err := args.Params()
	if err != nil {
		return nil, err
	}

	merged := parameters.Merge(parameters.FromEnviron(os.Environ()), system, configuration, runner)
	klog.V(log.LogLevelDebug).InfoS("merged build parameters", "count", len(merged))

	return parameters.Decode(merged)
}

func readProperties(path string) (map[string]string, error) {
	if len(path) == 0 {
		return map[string]string{}, nil
	}

	return parameters.ReadProperties(path)
}
