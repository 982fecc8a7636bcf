package helpers

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pluralsh/polly/fs"
	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/log"
)

// ErrIllegalArchivePath is returned for archive entries that would be
// unpacked outside the destination directory.
var ErrIllegalArchivePath = errors.New("illegal file path in archive")

func Fetch(options ...FetchOption) FetchClient {
	client := &fetchClient{}

	for _, option := range options {
		option(client)
	}

	client.init()

	return client
}

func (in *fetchClient) Archive(url string) (string, error) {
	backoff := wait.Backoff{
		Duration: 1 * time.Second, // initial delay
		Factor:   2.0,             // multiply delay each retry
		Jitter:   0.1,             // add 10% random jitter
		Steps:    5,               // maximum number of retries
	}

	var lastErr error

	err := wait.ExponentialBackoffWithContext(in.ctx, backoff, func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			// stop retries
			return false, err
		}

		resp, err := in.client.Do(req)
		if err != nil {
			lastErr = err
			klog.V(log.LogLevelDefault).InfoS("request failed, will retry", "url", url, "error", err)
			return false, nil // retryable
		}
		defer in.handleCloseResponseBody(resp)

		if err = in.handleStatusCode(resp); err != nil {
			lastErr = err
			if resp.StatusCode < http.StatusInternalServerError {
				// stop retries
				return false, err
			}

			klog.V(log.LogLevelDefault).InfoS("bad status code, will retry", "url", url, "error", err)
			return false, nil // retryable
		}

		klog.V(log.LogLevelDefault).InfoS("successfully fetched archive", "url", url)
		if err = in.unpack(url, resp.Body); err != nil {
			lastErr = err
			if errors.Is(err, ErrIllegalArchivePath) {
				// stop retries
				return false, err
			}

			klog.V(log.LogLevelDefault).InfoS("unpack failed, will retry", "url", url, "error", err)
			return false, nil // retryable
		}

		return true, nil
	})

	if err != nil && lastErr == nil {
		return in.destination, fmt.Errorf("failed to fetch archive: %w", err)
	}

	if err != nil {
		// ExponentialBackoff returns an error if retries exhausted
		return in.destination, fmt.Errorf("failed to fetch archive after retries: %w; last error: %w", err, lastErr)
	}

	return in.destination, nil
}

func (in *fetchClient) unpack(url string, body io.Reader) error {
	klog.V(log.LogLevelExtended).InfoS("unpacking archive", "destination", in.destination)
	if strings.HasSuffix(url, ".zip") {
		return unzip(in.destination, body)
	}

	return fs.Untar(in.destination, body)
}

// unzip needs random access to the archive, so the body is buffered in memory.
func unzip(destination string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}

	root, err := filepath.Abs(destination)
	if err != nil {
		return err
	}

	for _, file := range reader.File {
		target := filepath.Join(root, file.Name)
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) && target != root {
			return fmt.Errorf("%w: %s", ErrIllegalArchivePath, file.Name)
		}

		if file.FileInfo().IsDir() {
			if err = os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err = extract(file, target); err != nil {
			return err
		}
	}

	return nil
}

func extract(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, file.Mode()|0600)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (in *fetchClient) handleStatusCode(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	return fmt.Errorf("could not fetch the data, error code %d", resp.StatusCode)
}

func (in *fetchClient) handleCloseResponseBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		klog.ErrorS(err, "failed to close response body")
	}
}

func (in *fetchClient) init() {
	if in.ctx == nil {
		in.ctx = context.Background()
	}

	if len(in.destination) == 0 {
		in.destination = filepath.Join(os.TempDir(), "fetch")
	}

	if in.transport == nil {
		in.transport = http.DefaultTransport
	}

	if in.timeout == nil {
		in.timeout = lo.ToPtr(defaultFetchTimeout)
	}

	if in.client == nil {
		in.client = &http.Client{
			Transport: in.transport,
			Timeout:   *in.timeout,
		}
	}
}

// FetchWithTransport uses the provided transport, i.e. one that carries
// a session or a proxy configuration.
func FetchWithTransport(transport http.RoundTripper) FetchOption {
	return func(client *fetchClient) {
		client.transport = transport
	}
}

// FetchWithContext stops retrying and aborts a running download once ctx
// is done.
func FetchWithContext(ctx context.Context) FetchOption {
	return func(client *fetchClient) {
		client.ctx = ctx
	}
}

func FetchToDir(destination string) FetchOption {
	return func(client *fetchClient) {
		client.destination = destination
	}
}

func FetchWithTimeout(timeout time.Duration) FetchOption {
	return func(client *fetchClient) {
		client.timeout = &timeout
	}
}
