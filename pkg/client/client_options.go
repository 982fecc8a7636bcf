package client

import (
	"time"

	"golang.org/x/time/rate"
)

func WithCredentials(username, password string) Option {
	return func(c *client) {
		c.username = username
		c.password = password
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.timeout = timeout
	}
}

func WithProxy(proxy *ProxyOptions) Option {
	return func(c *client) {
		c.proxy = proxy
	}
}

// WithRateLimit limits the number of requests per second sent to the service.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithRetry configures how many times retryable requests are attempted
// and the initial delay between attempts.
func WithRetry(steps int, delay time.Duration) Option {
	return func(c *client) {
		c.retrySteps = steps
		c.retryDelay = delay
	}
}

// WithUserAgent identifies the integration to the service.
func WithUserAgent(userAgent string) Option {
	return func(c *client) {
		c.userAgent = userAgent
	}
}
