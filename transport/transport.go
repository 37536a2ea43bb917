package transport

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xxxsen/davclient/entity"
)

type Depth int

const (
	DepthSelf     Depth = 0
	DepthChildren Depth = 1
)

func (d Depth) String() string {
	if d == DepthChildren {
		return "1"
	}
	return "0"
}

// Record 多状态响应中的一条记录, 只包含状态为200的属性
type Record struct {
	Href  string
	Props []entity.Property
}

// ITransport 只负责单次WebDAV请求, 状态码在实现内部转换为errs中定义的错误
type ITransport interface {
	Name() string
	Propfind(ctx context.Context, uri string, depth Depth) ([]*Record, error)
	Mkcol(ctx context.Context, uri string) error
	Delete(ctx context.Context, uri string) error
	Put(ctx context.Context, uri string, body IBody, contentType string) error
	Copy(ctx context.Context, src string, dst string, overwrite bool, shallow bool) error
	Move(ctx context.Context, src string, dst string, overwrite bool) error
	// Lock creates a new lock when token is empty, otherwise refreshes it.
	Lock(ctx context.Context, uri string, token string, timeout time.Duration) (string, error)
	Unlock(ctx context.Context, uri string, token string) error
	Proppatch(ctx context.Context, uri string, props []entity.Property) error
	Get(ctx context.Context, uri string) (io.ReadCloser, error)
}

type CreateFunc func(args interface{}) (ITransport, error)

var mp = make(map[string]CreateFunc)

func Register(name string, fn CreateFunc) {
	mp[name] = fn
}

func Create(name string, args interface{}) (ITransport, error) {
	fn, ok := mp[name]
	if !ok {
		return nil, fmt.Errorf("transport type not found, name:%s", name)
	}
	return fn(args)
}

func List() []string {
	rs := make([]string, 0, len(mp))
	for name := range mp {
		rs = append(rs, name)
	}
	sort.Strings(rs)
	return rs
}
