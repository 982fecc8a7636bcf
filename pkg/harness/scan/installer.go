package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/internal/helpers"
	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/host"
	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	lockFileName   = ".lock"
	lockRetryDelay = 500 * time.Millisecond
)

// Downloader fetches the scan CLI distribution.
type Downloader interface {
	DownloadCLI(ctx context.Context, destination string) error
}

// Installer keeps the scan CLI in the tools directory in sync with the
// server version. Builds running in parallel on the same agent share the
// directory, access to it is guarded by a file lock.
type Installer struct {
	dir        string
	downloader Downloader
	logger     host.Logger
}

func NewInstaller(dir string, downloader Downloader, logger host.Logger) *Installer {
	return &Installer{
		dir:        dir,
		downloader: downloader,
		logger:     logger,
	}
}

// Ensure installs the CLI if it is missing or was downloaded from a
// different server version and returns its location.
func (in *Installer) Ensure(ctx context.Context, serverVersion string) (Tools, error) {
	if err := helpers.EnsureDir(in.dir); err != nil {
		return Tools{}, internalerrors.NewIntegrationError("could not create the CLI directory", err)
	}

	lock := flock.New(filepath.Join(in.dir, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		return Tools{}, internalerrors.NewIntegrationError("could not lock the CLI directory", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			klog.ErrorS(err, "could not unlock the CLI directory", "dir", in.dir)
		}
	}()

	installed := in.installedVersion()
	tools, err := LocateTools(in.dir)
	if err != nil {
		return Tools{}, err
	}

	if len(tools.Jar) > 0 && SameVersion(installed, serverVersion) {
		klog.V(log.LogLevelExtended).InfoS("scan CLI is up to date", "dir", in.dir, "version", installed)
		return tools, nil
	}

	in.logger.Info(fmt.Sprintf("Installing the Hub CLI for server version %s into %s", serverVersion, in.dir))
	if err = in.clean(); err != nil {
		return Tools{}, internalerrors.NewIntegrationError("could not remove the previous CLI installation", err)
	}

	if err = in.downloader.DownloadCLI(ctx, in.dir); err != nil {
		return Tools{}, err
	}

	if err = helpers.File().Create(filepath.Join(in.dir, VersionFileName), []byte(serverVersion)); err != nil {
		return Tools{}, internalerrors.NewIntegrationError("could not store the CLI version", err)
	}

	return LocateTools(in.dir)
}

func (in *Installer) installedVersion() string {
	data, err := os.ReadFile(filepath.Join(in.dir, VersionFileName))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func (in *Installer) clean() error {
	homes, err := filepath.Glob(filepath.Join(in.dir, cliGlob))
	if err != nil {
		return err
	}

	for _, home := range homes {
		if err = os.RemoveAll(home); err != nil {
			return err
		}
	}

	return nil
}
