package webdav

import (
	"net/http"
	"time"

	"github.com/xxxsen/davclient/auth"
	"github.com/xxxsen/davclient/transport"
	"github.com/xxxsen/davclient/transport/httpdav"
)

type config struct {
	t        transport.ITransport
	httpOpts []httpdav.Option
}

type Option func(c *config)

// WithTransport replaces the default http transport, the other options are ignored then.
func WithTransport(t transport.ITransport) Option {
	return func(c *config) {
		c.t = t
	}
}

func WithBasicAuth(user string, password string) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpdav.WithBasicAuth(user, password))
	}
}

func WithAuth(a auth.IAuth) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpdav.WithAuth(a))
	}
}

func WithHTTPClient(cli *http.Client) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpdav.WithHTTPClient(cli))
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpdav.WithTimeout(d))
	}
}

type putConfig struct {
	size    int64
	parents bool
}

type PutOption func(c *putConfig)

// WithSize declares the length of a stream source, unknown by default.
func WithSize(n int64) PutOption {
	return func(c *putConfig) {
		c.size = n
	}
}

// WithParents creates the missing parent collections before uploading.
func WithParents() PutOption {
	return func(c *putConfig) {
		c.parents = true
	}
}

type copyConfig struct {
	overwrite bool
	shallow   bool
}

type CopyOption func(c *copyConfig)

func WithOverwrite(v bool) CopyOption {
	return func(c *copyConfig) {
		c.overwrite = v
	}
}

// WithShallow copies a collection without its members, move ignores it.
func WithShallow(v bool) CopyOption {
	return func(c *copyConfig) {
		c.shallow = v
	}
}

func applyCopyOptions(opts []CopyOption) *copyConfig {
	c := &copyConfig{overwrite: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
