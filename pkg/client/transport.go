package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"
	"golang.org/x/time/rate"
)

// limitedTransport blocks until the limiter allows the request and
// identifies the integration through the User-Agent header.
type limitedTransport struct {
	limiter   *rate.Limiter
	userAgent string
	wrapped   http.RoundTripper
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	if len(t.userAgent) > 0 {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}

	return t.wrapped.RoundTrip(req)
}

func newTransport(proxy *ProxyOptions, limiter *rate.Limiter, userAgent string) http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != nil && len(proxy.Host) > 0 {
		base.Proxy = proxyFunc(proxy)
	}

	return &limitedTransport{
		limiter:   limiter,
		userAgent: userAgent,
		wrapped:   base,
	}
}

func proxyFunc(proxy *ProxyOptions) func(*http.Request) (*url.URL, error) {
	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", proxy.Host, proxy.Port),
	}

	if len(proxy.Username) > 0 {
		proxyURL.User = url.UserPassword(proxy.Username, proxy.Password)
	}

	resolve := (&httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    strings.Join(proxy.IgnoredHosts, ","),
	}).ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return resolve(req.URL)
	}
}
