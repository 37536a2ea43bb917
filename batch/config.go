package batch

import "time"

type config struct {
	Client        IClient
	Thread        int
	Retry         int
	RetryInterval time.Duration
	Parents       bool
}

type Option func(c *config)

func WithClient(cli IClient) Option {
	return func(c *config) {
		c.Client = cli
	}
}

func WithThread(n int) Option {
	return func(c *config) {
		c.Thread = n
	}
}

// WithRetry sets the attempts per file and the wait between them.
func WithRetry(n int, interval time.Duration) Option {
	return func(c *config) {
		c.Retry = n
		c.RetryInterval = interval
	}
}

// WithParents creates every target parent collection before uploading.
func WithParents(v bool) Option {
	return func(c *config) {
		c.Parents = v
	}
}
