package exec

import (
	"context"
	"io"
)

type Executable interface {
	ID() string
	// Run executes the command and captures its output. A non-zero return code
	// is reported through Result and is not treated as an error.
	Run(ctx context.Context) (*Result, error)
	// Command returns the full command line with secrets masked.
	Command() string
}

// Result is the captured outcome of a single invocation.
type Result struct {
	// ReturnCode of the process, -1 if it was killed by a signal.
	ReturnCode int
	Stdout     string
	Stderr     string
}

// Output is the combined standard output followed by the standard error.
func (in *Result) Output() string {
	return in.Stdout + LineSeparator + in.Stderr
}

// executable wraps command calls to make it easier to run and process output.
type executable struct {
	// id uniquely identifies a command
	id string

	// workingDirectory specifies the working directory of the command.
	// If workingDirectory is empty then runs the command in the calling process's current directory.
	workingDirectory string

	// command specifies root command that will be executed
	command string

	args []string

	// standardLogSink is a custom writer that can be used to forward
	// standard output while it is being captured.
	standardLogSink io.Writer

	// errorLogSink is a custom writer that can be used to forward
	// error output while it is being captured.
	errorLogSink io.Writer
}

type Option func(*executable)
