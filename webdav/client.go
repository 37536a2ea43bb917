package webdav

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davclient/directory"
	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/listing"
	"github.com/xxxsen/davclient/mapper"
	"github.com/xxxsen/davclient/resolver"
	"github.com/xxxsen/davclient/transport"
	"github.com/xxxsen/davclient/transport/httpdav"
	"go.uber.org/zap"
)

// Client 对外提供的WebDAV操作, 路径均为相对root的路径.
// 修改类操作在路径为空时不做任何事情, 返回(nil, nil)
type Client struct {
	r *resolver.Resolver
	t transport.ITransport
	l *listing.Lister
	e *directory.Ensurer
}

func New(root string, opts ...Option) (*Client, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	r, err := resolver.New(root)
	if err != nil {
		return nil, err
	}
	t := c.t
	if t == nil {
		t, err = httpdav.New(c.httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("create http transport failed, err:%w", err)
		}
	}
	l := listing.New(t, r, mapper.New(r))
	return &Client{
		r: r,
		t: t,
		l: l,
		e: directory.NewEnsurer(t, r, l),
	}, nil
}

func (c *Client) Root() string {
	return c.r.Root()
}

func (c *Client) GetResource(ctx context.Context, p string) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return c.l.GetOne(ctx, p)
}

func (c *Client) GetChildResources(ctx context.Context, p string) ([]*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return c.l.List(ctx, p, transport.DepthChildren)
}

// GetResourceStream returns the content of p, the caller owns the stream.
func (c *Client) GetResourceStream(ctx context.Context, p string) (*ResourceStream, error) {
	if len(p) == 0 {
		return nil, nil
	}
	uri, err := c.r.Resolve(p)
	if err != nil {
		return nil, err
	}
	rc, err := c.t.Get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("get resource stream failed, path:%s, err:%w", p, err)
	}
	return newResourceStream(p, uri, rc), nil
}

func (c *Client) CreateCollection(ctx context.Context, p string) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return c.e.EnsureCollection(ctx, p)
}

// DeleteResource returns the state observed right before deleting.
func (c *Client) DeleteResource(ctx context.Context, p string) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	res, err := c.l.GetOne(ctx, p)
	if err != nil {
		return nil, err
	}
	uri, err := c.r.Resolve(p)
	if err != nil {
		return nil, err
	}
	if err := c.t.Delete(ctx, uri); err != nil {
		logutil.GetLogger(ctx).Error("delete resource failed", zap.Error(err), zap.String("path", p))
		return nil, fmt.Errorf("delete failed, path:%s, err:%w", p, err)
	}
	return res, nil
}

// PutResource uploads a stream, the body is not replayable and is never closed here.
func (c *Client) PutResource(ctx context.Context, p string, r io.Reader, contentType string, opts ...PutOption) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	pc := &putConfig{size: -1}
	for _, opt := range opts {
		opt(pc)
	}
	return c.put(ctx, p, transport.StreamBody(r, pc.size), contentType, pc)
}

// PutResourceFile uploads a local file, the transport may replay it.
func (c *Client) PutResourceFile(ctx context.Context, p string, file string, contentType string, opts ...PutOption) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	pc := &putConfig{}
	for _, opt := range opts {
		opt(pc)
	}
	body, err := transport.FileBody(file)
	if err != nil {
		return nil, err
	}
	return c.put(ctx, p, body, contentType, pc)
}

func (c *Client) put(ctx context.Context, p string, body transport.IBody, contentType string, pc *putConfig) (*entity.Resource, error) {
	uri, err := c.r.Resolve(p)
	if err != nil {
		return nil, err
	}
	if pc.parents {
		parent, err := resolver.ParentOf(p)
		if err != nil {
			return nil, err
		}
		if _, err := c.e.EnsureCollection(ctx, parent); err != nil {
			return nil, fmt.Errorf("ensure parent collection failed, path:%s, err:%w", parent, err)
		}
	}
	if err := c.t.Put(ctx, uri, body, contentType); err != nil {
		logutil.GetLogger(ctx).Error("put resource failed", zap.Error(err), zap.String("path", p), zap.Int64("size", body.Size()))
		return nil, fmt.Errorf("put failed, path:%s, err:%w", p, err)
	}
	return c.l.GetOne(ctx, p)
}

func toProperties(props map[string]string) ([]entity.Property, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rs := make([]entity.Property, 0, len(keys))
	for _, k := range keys {
		item := entity.Property{Name: k, Value: props[k]}
		if strings.HasPrefix(k, "{") {
			idx := strings.Index(k, "}")
			if idx < 0 {
				return nil, errs.InvalidArgument("invalid property name, name:%s", k)
			}
			item.Space, item.Name = k[1:idx], k[idx+1:]
		}
		if len(item.Name) == 0 {
			return nil, errs.InvalidArgument("empty property name, key:%s", k)
		}
		rs = append(rs, item)
	}
	return rs, nil
}

// SetProperties sets dead properties on p, keys may use the {namespace}name form.
func (c *Client) SetProperties(ctx context.Context, p string, props map[string]string) (*entity.Resource, error) {
	if len(p) == 0 || len(props) == 0 {
		return nil, nil
	}
	items, err := toProperties(props)
	if err != nil {
		return nil, err
	}
	uri, err := c.r.Resolve(p)
	if err != nil {
		return nil, err
	}
	if err := c.t.Proppatch(ctx, uri, items); err != nil {
		logutil.GetLogger(ctx).Error("set properties failed", zap.Error(err), zap.String("path", p))
		return nil, fmt.Errorf("proppatch failed, path:%s, err:%w", p, err)
	}
	return c.l.GetOne(ctx, p)
}

func (c *Client) resolvePair(src string, dst string) (string, string, error) {
	srcURI, err := c.r.Resolve(src)
	if err != nil {
		return "", "", err
	}
	dstURI, err := c.r.Resolve(dst)
	if err != nil {
		return "", "", err
	}
	return srcURI, dstURI, nil
}

// CopyResource overwrites the target and copies members by default.
func (c *Client) CopyResource(ctx context.Context, src string, dst string, opts ...CopyOption) (*entity.Resource, error) {
	if len(src) == 0 || len(dst) == 0 {
		return nil, nil
	}
	cc := applyCopyOptions(opts)
	srcURI, dstURI, err := c.resolvePair(src, dst)
	if err != nil {
		return nil, err
	}
	if err := c.t.Copy(ctx, srcURI, dstURI, cc.overwrite, cc.shallow); err != nil {
		logutil.GetLogger(ctx).Error("copy resource failed", zap.Error(err), zap.String("src", src), zap.String("dst", dst))
		return nil, fmt.Errorf("copy failed, src:%s, dst:%s, err:%w", src, dst, err)
	}
	return c.l.GetOne(ctx, dst)
}

func (c *Client) MoveResource(ctx context.Context, src string, dst string, opts ...CopyOption) (*entity.Resource, error) {
	if len(src) == 0 || len(dst) == 0 {
		return nil, nil
	}
	cc := applyCopyOptions(opts)
	srcURI, dstURI, err := c.resolvePair(src, dst)
	if err != nil {
		return nil, err
	}
	if err := c.t.Move(ctx, srcURI, dstURI, cc.overwrite); err != nil {
		logutil.GetLogger(ctx).Error("move resource failed", zap.Error(err), zap.String("src", src), zap.String("dst", dst))
		return nil, fmt.Errorf("move failed, src:%s, dst:%s, err:%w", src, dst, err)
	}
	return c.l.GetOne(ctx, dst)
}

// LockResource refreshes an existing lock identified by token.
func (c *Client) LockResource(ctx context.Context, p string, token string, timeout time.Duration) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	if len(token) == 0 {
		return nil, errs.InvalidArgument("empty lock token, path:%s", p)
	}
	uri, err := c.r.Resolve(p)
	if err != nil {
		return nil, err
	}
	if _, err := c.t.Lock(ctx, uri, token, timeout); err != nil {
		return nil, fmt.Errorf("lock failed, path:%s, err:%w", p, err)
	}
	return c.l.GetOne(ctx, p)
}

// AcquireLock creates an exclusive write lock and returns its token.
// The token is returned even when the re-fetch fails.
func (c *Client) AcquireLock(ctx context.Context, p string, timeout time.Duration) (string, *entity.Resource, error) {
	if len(p) == 0 {
		return "", nil, nil
	}
	uri, err := c.r.Resolve(p)
	if err != nil {
		return "", nil, err
	}
	token, err := c.t.Lock(ctx, uri, "", timeout)
	if err != nil {
		return "", nil, fmt.Errorf("acquire lock failed, path:%s, err:%w", p, err)
	}
	res, err := c.l.GetOne(ctx, p)
	if err != nil {
		return token, nil, err
	}
	return token, res, nil
}

func (c *Client) UnlockResource(ctx context.Context, p string, token string) (*entity.Resource, error) {
	if len(p) == 0 {
		return nil, nil
	}
	if len(token) == 0 {
		return nil, errs.InvalidArgument("empty lock token, path:%s", p)
	}
	uri, err := c.r.Resolve(p)
	if err != nil {
		return nil, err
	}
	if err := c.t.Unlock(ctx, uri, token); err != nil {
		return nil, fmt.Errorf("unlock failed, path:%s, err:%w", p, err)
	}
	return c.l.GetOne(ctx, p)
}
