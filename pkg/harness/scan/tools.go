package scan

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/samber/lo"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
)

const (
	// ToolsDirName is the directory inside the agent tools directory that
	// keeps the scan CLI installation.
	ToolsDirName = "HubCLI"
	// VersionFileName keeps the server version the installed CLI was downloaded from.
	VersionFileName = "version.txt"

	cliGlob       = "scan.cli*"
	jarGlob       = "scan.cli*.jar"
	cacheDirName  = "cache"
	cacheJarName  = "scan.cli.impl-standalone.jar"
	javaExecName  = "java"
	javaExecWinEx = ".exe"
)

// Tools are the file system locations required to run the scan CLI.
type Tools struct {
	// Home of the unpacked CLI distribution.
	Home string
	// Java is the runtime executable.
	Java string
	// Jar is the scan CLI executable jar.
	Jar string
	// Cache is the one-jar cache used by the CLI.
	Cache string
}

// LocateTools finds the scan CLI distribution inside dir. Missing entries are
// left empty, CommandBuilder reports them.
func LocateTools(dir string) (Tools, error) {
	homes, err := filepath.Glob(filepath.Join(dir, cliGlob))
	if err != nil {
		return Tools{}, internalerrors.NewConfigurationErrorf("could not search the CLI directory: %s", err)
	}

	homes = lo.Filter(homes, func(home string, _ int) bool {
		info, err := os.Stat(home)
		return err == nil && info.IsDir()
	})

	if len(homes) == 0 {
		return Tools{}, nil
	}

	home := homes[len(homes)-1]
	tools := Tools{
		Home:  home,
		Cache: filepath.Join(home, cacheDirName, cacheJarName),
	}

	if jars, _ := filepath.Glob(filepath.Join(home, "lib", jarGlob)); len(jars) > 0 {
		tools.Jar = jars[0]
	}

	for _, java := range javaCandidates(home) {
		if _, err = os.Stat(java); err == nil {
			tools.Java = java
			break
		}
	}

	return tools, nil
}

func javaCandidates(home string) []string {
	name := javaExecName
	if runtime.GOOS == "windows" {
		name += javaExecWinEx
	}

	return []string{
		filepath.Join(home, "jre", "bin", name),
		filepath.Join(home, "jre", "Contents", "Home", "bin", name),
	}
}
