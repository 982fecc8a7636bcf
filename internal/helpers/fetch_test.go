package helpers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluralsh/scan-harness/internal/helpers"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	for name, content := range files {
		f, err := writer.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

func TestFetchZipArchive(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"scan.cli-2.1.0/lib/scan.cli-2.1.0-standalone.jar": "jar",
		"scan.cli-2.1.0/jre/bin/java":                      "java",
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	dir := t.TempDir()
	destination, err := helpers.Fetch(helpers.FetchToDir(dir)).Archive(server.URL + "/download/scan.cli.zip")
	require.NoError(t, err)
	assert.Equal(t, dir, destination)

	content, err := os.ReadFile(filepath.Join(dir, "scan.cli-2.1.0", "lib", "scan.cli-2.1.0-standalone.jar"))
	require.NoError(t, err)
	assert.Equal(t, "jar", string(content))
}

func TestFetchRejectsPathTraversal(t *testing.T) {
	archive := zipArchive(t, map[string]string{"../escape.txt": "nope"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dest")
	_, err := helpers.Fetch(helpers.FetchToDir(dir)).Archive(server.URL + "/download/scan.cli.zip")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.txt"))
}

func TestFetchClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := helpers.Fetch(helpers.FetchToDir(t.TempDir())).Archive(server.URL + "/download/scan.cli.zip")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchStopsWhenContextIsDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := helpers.Fetch(
		helpers.FetchWithContext(ctx),
		helpers.FetchToDir(t.TempDir()),
	).Archive(server.URL + "/download/scan.cli.zip")

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
