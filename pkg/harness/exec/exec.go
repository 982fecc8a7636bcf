package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/uuid"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	LineSeparator = "\n"

	// waitDelay bounds how long output is still collected after the
	// process was killed, i.e. from orphaned child processes.
	waitDelay = 10 * time.Second
)

func (in *executable) Run(ctx context.Context) (*Result, error) {
	cmd := exec.CommandContext(ctx, in.command, in.args...)
	cmd.WaitDelay = waitDelay

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.Stdout = in.writer(stdout, in.standardLogSink)
	cmd.Stderr = in.writer(stderr, in.errorLogSink)

	if len(in.workingDirectory) > 0 {
		cmd.Dir = in.workingDirectory
	}

	klog.V(log.LogLevelVerbose).InfoS("executing", "id", in.ID(), "command", in.Command())
	err := cmd.Run()
	result := &Result{
		ReturnCode: cmd.ProcessState.ExitCode(),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}

	if ctx.Err() != nil {
		return result, context.Cause(ctx)
	}

	// A non-zero exit code is reported through the result.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return result, err
	}

	return result, nil
}

func (in *executable) Command() string {
	return fmt.Sprintf("%s %s", in.command, strings.Join(Mask(in.args), " "))
}

func (in *executable) ID() string {
	if len(in.id) == 0 {
		in.id = string(uuid.NewUUID())
	}

	return in.id
}

func (in *executable) writer(buffer *bytes.Buffer, sink io.Writer) io.Writer {
	if sink != nil {
		return io.MultiWriter(buffer, sink)
	}

	return buffer
}

func NewExecutable(command string, options ...Option) Executable {
	result := &executable{
		command: command,
		args:    make([]string, 0),
	}

	for _, o := range options {
		o(result)
	}

	return result
}
