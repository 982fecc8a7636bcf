package controller

import (
	"time"

	"github.com/pluralsh/scan-harness/pkg/harness/bom"
	"github.com/pluralsh/scan-harness/pkg/harness/config"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/harness/parameters"
)

func WithHost(h host.Host) Option {
	return func(s *scanController) {
		s.host = h
	}
}

func WithSettings(settings *parameters.Settings) Option {
	return func(s *scanController) {
		s.settings = settings
	}
}

func WithServerConfigDocument(document *config.ServerConfigDocument) Option {
	return func(s *scanController) {
		s.document = document
	}
}

func WithClientFactory(factory ClientFactory) Option {
	return func(s *scanController) {
		s.newClient = factory
	}
}

func WithWorkingDir(dir string) Option {
	return func(s *scanController) {
		s.workingDir = dir
	}
}

func WithScanTimeout(timeout time.Duration) Option {
	return func(s *scanController) {
		s.scanTimeout = timeout
	}
}

func WithSettleDelay(delay time.Duration) Option {
	return func(s *scanController) {
		s.settleDelay = delay
	}
}

// WithDefaultBomWaitTime replaces bom.DefaultTimeout as the wait time used
// when no max wait time parameter is set.
func WithDefaultBomWaitTime(timeout time.Duration) Option {
	return func(s *scanController) {
		s.defaultBomWaitTime = timeout
	}
}

func WithWaiterOptions(options ...bom.Option) Option {
	return func(s *scanController) {
		s.waiterOptions = options
	}
}
