package scan_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/harness/scan"
)

type fakeDownloader struct {
	t     *testing.T
	calls atomic.Int32
	err   error
}

func (in *fakeDownloader) DownloadCLI(_ context.Context, destination string) error {
	in.calls.Add(1)
	if in.err != nil {
		return in.err
	}

	setupTools(in.t, destination, "exit 0\n")
	return nil
}

func TestInstallerDownloadsOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "HubCLI")
	downloader := &fakeDownloader{t: t}
	logger, _ := newLogger()
	installer := scan.NewInstaller(dir, downloader, logger)

	wg := sync.WaitGroup{}
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tools, err := installer.Ensure(context.Background(), "3.1.0")
			assert.NoError(t, err)
			assert.FileExists(t, tools.Jar)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), downloader.calls.Load())

	version, err := os.ReadFile(filepath.Join(dir, scan.VersionFileName))
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", string(version))
}

func TestInstallerReinstallsOnVersionChange(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "HubCLI")
	downloader := &fakeDownloader{t: t}
	logger, out := newLogger()
	installer := scan.NewInstaller(dir, downloader, logger)

	_, err := installer.Ensure(context.Background(), "3.1.0")
	require.NoError(t, err)
	_, err = installer.Ensure(context.Background(), "3.2.0")
	require.NoError(t, err)

	assert.Equal(t, int32(2), downloader.calls.Load())
	assert.Contains(t, out.String(), "Installing the Hub CLI for server version 3.2.0")
}

func TestInstallerDownloadFailure(t *testing.T) {
	downloader := &fakeDownloader{t: t, err: internalerrors.NewIntegrationError("download failed", errors.New("boom"))}
	logger, _ := newLogger()

	_, err := scan.NewInstaller(filepath.Join(t.TempDir(), "HubCLI"), downloader, logger).Ensure(context.Background(), "3.1.0")
	assert.True(t, errors.Is(err, internalerrors.ErrIntegration))
}
