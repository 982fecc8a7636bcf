package environment

// Environment is responsible for handling the scan working directory.
type Environment interface {
	// Setup ensures that the environment is correctly initialized
	// in order to start the scan.
	//
	// 1. Verifies that the working dir exists.
	// 2. Creates the scan log directory for the current build.
	Setup() error
	// LogDir returns the absolute path of the scan log directory.
	LogDir() string
	// WorkingDir returns the absolute path of the working directory.
	WorkingDir() string
}

type environment struct {
	// dir is the build working directory. All relative scan targets
	// are resolved against it.
	dir string
	// buildNumber identifies the build, scan logs of every build are kept
	// in a separate directory.
	buildNumber string
}

// Option allows to modify Environment behavior.
type Option func(*environment)

const (
	// LogDirName is the directory inside the working directory that keeps scan logs.
	LogDirName = "HubScanLogs"
)
