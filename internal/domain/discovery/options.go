package discovery

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/streamgem/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithCredential sets the provider credential. Empty leaves the client
// unconfigured and every Discover call fails with MissingCredentialError.
func WithCredential(credential string) Option {
	return func(c *Client) {
		c.credential = credential
	}
}

// WithBatchSize sets how many candidates are requested and kept.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithViewerRange sets the audience bounds written into the query.
func WithViewerRange(lo, hi, target int) Option {
	return func(c *Client) {
		if lo >= 0 && lo <= hi {
			c.viewers = ViewerRange{Min: lo, Max: hi, Target: target}
		}
	}
}

// WithTimeout bounds one provider round trip. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit limits outbound calls to rps per second with the given burst.
// rps <= 0 removes the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for upstream failures.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
