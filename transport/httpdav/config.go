package httpdav

import (
	"net/http"
	"time"

	"github.com/xxxsen/davclient/auth"
)

type config struct {
	Timeout            int64  `json:"timeout"`
	AuthKind           string `json:"auth_kind"`
	User               string `json:"user"`
	Password           string `json:"password"`
	Token              string `json:"token"`
	TokenType          string `json:"token_type"`
	MaxIdleConns       int    `json:"max_idle_conns"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
	UserAgent          string `json:"user_agent"`

	client *http.Client
	auth   auth.IAuth
}

type Option func(c *config)

// WithTimeout bounds every request, the caller context still applies.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.Timeout = int64(d / time.Second)
	}
}

func WithAuth(a auth.IAuth) Option {
	return func(c *config) {
		c.auth = a
	}
}

func WithBasicAuth(user string, password string) Option {
	return WithAuth(auth.NewBasic(user, password))
}

func WithHTTPClient(cli *http.Client) Option {
	return func(c *config) {
		c.client = cli
	}
}

func WithMaxIdleConns(n int) Option {
	return func(c *config) {
		c.MaxIdleConns = n
	}
}

func WithInsecureSkipVerify(v bool) Option {
	return func(c *config) {
		c.InsecureSkipVerify = v
	}
}

func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.UserAgent = ua
	}
}
