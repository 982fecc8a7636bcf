package host

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/log"
)

// serviceMessagePrefix marks a line the agent parses as a command.
const serviceMessagePrefix = "##teamcity["

// escaper implements the TeamCity service message escaping rules.
var escaper = strings.NewReplacer(
	"|", "||",
	"'", "|'",
	"\n", "|n",
	"\r", "|r",
	"[", "|[",
	"]", "|]",
)

type teamCity struct {
	sync.Mutex

	out      io.Writer
	features []Feature
	stopped  bool

	// registries receive every registered artifact in addition to the
	// service message.
	registries []ArtifactRegistry
}

type TeamCityOption func(*teamCity)

func WithFeatures(features ...Feature) TeamCityOption {
	return func(t *teamCity) {
		t.features = append(t.features, features...)
	}
}

func WithArtifactRegistry(registry ArtifactRegistry) TeamCityOption {
	return func(t *teamCity) {
		if registry != nil {
			t.registries = append(t.registries, registry)
		}
	}
}

// Log writes informational messages as plain text. Lines that the agent
// would interpret as service messages, i.e. from the scan CLI output, are
// wrapped into an escaped message instead.
func (in *teamCity) Log(level Level, message string) {
	if level != LevelInfo {
		in.write(serviceMessage(message, level))
		return
	}

	lines := lo.Map(strings.Split(message, "\n"), func(line string, _ int) string {
		if !strings.Contains(line, serviceMessagePrefix) {
			return line
		}

		return serviceMessage(line, level)
	})
	in.write(strings.Join(lines, "\n"))
}

func (in *teamCity) Info(message string) {
	in.Log(LevelInfo, message)
}

func (in *teamCity) Warn(message string) {
	in.Log(LevelWarning, message)
}

func (in *teamCity) Error(message string) {
	in.Log(LevelError, message)
}

func (in *teamCity) RegisterArtifact(path, name string) error {
	in.write(fmt.Sprintf("##teamcity[publishArtifacts '%s']", escaper.Replace(fmt.Sprintf("%s => %s", path, name))))

	for _, registry := range in.registries {
		if err := registry.RegisterArtifact(path, name); err != nil {
			return err
		}
	}

	return nil
}

func (in *teamCity) StopBuild(message string) {
	in.Lock()
	in.stopped = true
	in.Unlock()

	klog.V(log.LogLevelDefault).InfoS("stopping build", "reason", message)
	in.write(fmt.Sprintf("##teamcity[buildStop comment='%s' readdToQueue='false']", escaper.Replace(message)))
}

func (in *teamCity) Stopped() bool {
	in.Lock()
	defer in.Unlock()

	return in.stopped
}

func (in *teamCity) BuildFeatures(featureType string) []Feature {
	return lo.Filter(in.features, func(f Feature, _ int) bool {
		return f.Type == featureType
	})
}

func serviceMessage(message string, level Level) string {
	return fmt.Sprintf("##teamcity[message text='%s' status='%s']", escaper.Replace(message), level)
}

func (in *teamCity) write(line string) {
	in.Lock()
	defer in.Unlock()

	if _, err := fmt.Fprintln(in.out, line); err != nil {
		klog.ErrorS(err, "could not write to build log")
	}
}

// NewTeamCity creates a Host that communicates with the TeamCity agent
// through service messages written to out.
func NewTeamCity(out io.Writer, options ...TeamCityOption) Host {
	result := &teamCity{out: out}

	for _, o := range options {
		o(result)
	}

	return result
}
