package log

import (
	"k8s.io/klog/v2"
)

// Log levels used across the harness. The higher the level the more verbose
// the output. Default level is LogLevelDefault.
const (
	// LogLevelMinimal is used for messages that should always be visible.
	LogLevelMinimal klog.Level = 0
	// LogLevelInfo is used for general information about the run progress.
	LogLevelInfo klog.Level = 1
	// LogLevelDefault is the default verbosity of the harness.
	LogLevelDefault klog.Level = 2
	// LogLevelExtended adds additional details about executed operations.
	LogLevelExtended klog.Level = 3
	// LogLevelVerbose adds details about executed commands and requests.
	LogLevelVerbose klog.Level = 4
	// LogLevelDebug is used for debugging information.
	LogLevelDebug klog.Level = 5
	// LogLevelTrace logs everything including request/response payloads.
	LogLevelTrace klog.Level = 6
)
