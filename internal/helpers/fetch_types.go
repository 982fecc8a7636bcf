package helpers

import (
	"context"
	"net/http"
	"time"
)

const (
	defaultFetchTimeout = 5 * time.Minute
)

type FetchOption func(*fetchClient)

type FetchClient interface {
	// Archive downloads a .zip or .tar.gz archive and unpacks it into
	// the destination directory.
	Archive(url string) (string, error)
}

type fetchClient struct {
	// ctx bounds all download attempts
	ctx context.Context
	// destination is a path to directory where data should be stored
	destination string
	// client
	client *http.Client
	// timeout
	timeout *time.Duration
	// transport
	transport http.RoundTripper
}
