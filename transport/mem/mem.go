package mem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/utils"
	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/transport"
	dutils "github.com/xxxsen/davclient/utils"
)

const (
	TransportName = "mem"
	davNamespace  = "DAV:"
	lockPrefix    = "opaquelocktoken:"
)

var liveProps = map[string]struct{}{
	"resourcetype":     {},
	"getcontentlength": {},
	"getcontenttype":   {},
	"getlastmodified":  {},
	"getetag":          {},
	"lockdiscovery":    {},
}

type lockInfo struct {
	token  string
	expire time.Time
}

func (l *lockInfo) active(now time.Time) bool {
	return l != nil && (l.expire.IsZero() || now.Before(l.expire))
}

type node struct {
	dir         bool
	data        []byte
	contentType string
	mtime       time.Time
	props       []entity.Property
	lock        *lockInfo
}

func (n *node) clone() *node {
	return &node{
		dir:         n.dir,
		data:        append([]byte(nil), n.data...),
		contentType: n.contentType,
		mtime:       n.mtime,
		props:       append([]entity.Property(nil), n.props...),
	}
}

// memTransport 内存版的WebDAV服务端, 锁只做记录, 不阻止其他方法
type memTransport struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

func New(opts ...Option) (transport.ITransport, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	t := &memTransport{nodes: make(map[string]*node)}
	t.nodes["/"] = &node{dir: true, mtime: time.Now()}
	for _, item := range c.Collections {
		if err := t.mkdirAll(item); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *memTransport) Name() string {
	return TransportName
}

func (t *memTransport) mkdirAll(p string) error {
	key := cleanKey(p)
	if key == "/" {
		return nil
	}
	acc := ""
	for _, item := range strings.Split(key[1:], "/") {
		acc = acc + "/" + item
		n, ok := t.nodes[acc]
		if !ok {
			t.nodes[acc] = &node{dir: true, mtime: time.Now()}
			continue
		}
		if !n.dir {
			return fmt.Errorf("non-collection found in path, path:%s", acc)
		}
	}
	return nil
}

func cleanKey(p string) string {
	return path.Clean("/" + p)
}

func keyOf(method string, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", &errs.ServerError{Method: method, URI: uri, Code: http.StatusBadRequest}
	}
	return cleanKey(u.Path), nil
}

func checkCtx(ctx context.Context, method string, uri string) error {
	if err := ctx.Err(); err != nil {
		return errs.Transport(method, uri, err)
	}
	return nil
}

func status(method string, uri string, code int) error {
	return errs.FromStatus(method, uri, code)
}

func parentOf(key string) string {
	return path.Dir(key)
}

func (t *memTransport) isDir(key string) bool {
	n, ok := t.nodes[key]
	return ok && n.dir
}

func (t *memTransport) subtree(key string) []string {
	rs := []string{key}
	prefix := key + "/"
	if key == "/" {
		prefix = "/"
	}
	for k := range t.nodes {
		if k != key && strings.HasPrefix(k, prefix) {
			rs = append(rs, k)
		}
	}
	sort.Strings(rs)
	return rs
}

func (t *memTransport) removeTree(key string) {
	for _, k := range t.subtree(key) {
		delete(t.nodes, k)
	}
}

func href(key string, n *node) string {
	h := (&url.URL{Path: key}).EscapedPath()
	if n.dir && key != "/" {
		h += "/"
	}
	return h
}

func davProp(name string, value string) entity.Property {
	return entity.Property{Space: davNamespace, Name: name, Value: value}
}

func (t *memTransport) record(key string, n *node, now time.Time) *transport.Record {
	props := make([]entity.Property, 0, 8+len(n.props))
	if n.dir {
		props = append(props, davProp("resourcetype", `<D:collection xmlns:D="DAV:"/>`))
	} else {
		props = append(props,
			davProp("resourcetype", ""),
			davProp("getcontentlength", strconv.Itoa(len(n.data))),
			davProp("getetag", dutils.ContentETag(n.data)),
		)
		if len(n.contentType) > 0 {
			props = append(props, davProp("getcontenttype", n.contentType))
		}
	}
	props = append(props, davProp("getlastmodified", n.mtime.UTC().Format(http.TimeFormat)))
	if n.lock.active(now) {
		props = append(props, davProp("lockdiscovery", n.lock.token))
	}
	props = append(props, n.props...)
	return &transport.Record{Href: href(key, n), Props: props}
}

func (t *memTransport) Propfind(ctx context.Context, uri string, depth transport.Depth) ([]*transport.Record, error) {
	const method = "PROPFIND"
	if err := checkCtx(ctx, method, uri); err != nil {
		return nil, err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[key]
	if !ok {
		return nil, status(method, uri, http.StatusNotFound)
	}
	now := time.Now()
	rs := []*transport.Record{t.record(key, n, now)}
	if depth != transport.DepthChildren || !n.dir {
		return rs, nil
	}
	children := make([]string, 0)
	for k := range t.nodes {
		if k != key && parentOf(k) == key {
			children = append(children, k)
		}
	}
	sort.Strings(children)
	for _, k := range children {
		rs = append(rs, t.record(k, t.nodes[k], now))
	}
	return rs, nil
}

func (t *memTransport) Mkcol(ctx context.Context, uri string) error {
	const method = "MKCOL"
	if err := checkCtx(ctx, method, uri); err != nil {
		return err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[key]; ok {
		return status(method, uri, http.StatusMethodNotAllowed)
	}
	if !t.isDir(parentOf(key)) {
		return status(method, uri, http.StatusConflict)
	}
	t.nodes[key] = &node{dir: true, mtime: time.Now()}
	return nil
}

func (t *memTransport) Delete(ctx context.Context, uri string) error {
	const method = http.MethodDelete
	if err := checkCtx(ctx, method, uri); err != nil {
		return err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if key == "/" {
		return status(method, uri, http.StatusForbidden)
	}
	if _, ok := t.nodes[key]; !ok {
		return status(method, uri, http.StatusNotFound)
	}
	t.removeTree(key)
	return nil
}

func (t *memTransport) Put(ctx context.Context, uri string, body transport.IBody, contentType string) error {
	const method = http.MethodPut
	if err := checkCtx(ctx, method, uri); err != nil {
		return err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return err
	}
	rc, err := body.Open()
	if err != nil {
		return errs.Transport(method, uri, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return errs.Transport(method, uri, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.isDir(parentOf(key)) {
		return status(method, uri, http.StatusConflict)
	}
	n, ok := t.nodes[key]
	if ok && n.dir {
		return status(method, uri, http.StatusMethodNotAllowed)
	}
	if !ok {
		n = &node{}
		t.nodes[key] = n
	}
	n.data = raw
	n.contentType = contentType
	n.mtime = time.Now()
	return nil
}

func (t *memTransport) copyTree(method string, src string, dst string, overwrite bool, shallow bool) (int, error) {
	srcKey, err := keyOf(method, src)
	if err != nil {
		return 0, err
	}
	dstKey, err := keyOf(method, dst)
	if err != nil {
		return 0, err
	}
	sn, ok := t.nodes[srcKey]
	if !ok {
		return http.StatusNotFound, nil
	}
	if srcKey == "/" || dstKey == "/" || srcKey == dstKey ||
		strings.HasPrefix(dstKey, srcKey+"/") || strings.HasPrefix(srcKey, dstKey+"/") {
		return http.StatusForbidden, nil
	}
	if !t.isDir(parentOf(dstKey)) {
		return http.StatusConflict, nil
	}
	if _, exist := t.nodes[dstKey]; exist {
		if !overwrite {
			return http.StatusPreconditionFailed, nil
		}
		t.removeTree(dstKey)
	}
	if !sn.dir || shallow {
		t.nodes[dstKey] = sn.clone()
		return http.StatusCreated, nil
	}
	for _, k := range t.subtree(srcKey) {
		t.nodes[dstKey+strings.TrimPrefix(k, srcKey)] = t.nodes[k].clone()
	}
	return http.StatusCreated, nil
}

func (t *memTransport) Copy(ctx context.Context, src string, dst string, overwrite bool, shallow bool) error {
	const method = "COPY"
	if err := checkCtx(ctx, method, src); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	code, err := t.copyTree(method, src, dst, overwrite, shallow)
	if err != nil {
		return err
	}
	return status(method, src, code)
}

func (t *memTransport) Move(ctx context.Context, src string, dst string, overwrite bool) error {
	const method = "MOVE"
	if err := checkCtx(ctx, method, src); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	code, err := t.copyTree(method, src, dst, overwrite, false)
	if err != nil {
		return err
	}
	if err := status(method, src, code); err != nil {
		return err
	}
	key, _ := keyOf(method, src)
	t.removeTree(key)
	return nil
}

func (t *memTransport) Lock(ctx context.Context, uri string, token string, timeout time.Duration) (string, error) {
	const method = "LOCK"
	if err := checkCtx(ctx, method, uri); err != nil {
		return "", err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	var expire time.Time
	if timeout > 0 {
		expire = now.Add(timeout)
	}
	n, ok := t.nodes[key]
	if len(token) > 0 {
		if !ok {
			return "", status(method, uri, http.StatusNotFound)
		}
		if !n.lock.active(now) || n.lock.token != token {
			return "", status(method, uri, http.StatusPreconditionFailed)
		}
		n.lock.expire = expire
		return token, nil
	}
	if !ok {
		if !t.isDir(parentOf(key)) {
			return "", status(method, uri, http.StatusConflict)
		}
		n = &node{mtime: now}
		t.nodes[key] = n
	}
	if n.lock.active(now) {
		return "", status(method, uri, http.StatusLocked)
	}
	n.lock = &lockInfo{token: lockPrefix + uuid.NewString(), expire: expire}
	return n.lock.token, nil
}

func (t *memTransport) Unlock(ctx context.Context, uri string, token string) error {
	const method = "UNLOCK"
	if err := checkCtx(ctx, method, uri); err != nil {
		return err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[key]
	if !ok {
		return status(method, uri, http.StatusNotFound)
	}
	if !n.lock.active(time.Now()) || n.lock.token != token {
		return status(method, uri, http.StatusConflict)
	}
	n.lock = nil
	return nil
}

func (t *memTransport) Proppatch(ctx context.Context, uri string, props []entity.Property) error {
	const method = "PROPPATCH"
	if err := checkCtx(ctx, method, uri); err != nil {
		return err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[key]
	if !ok {
		return status(method, uri, http.StatusNotFound)
	}
	for _, p := range props {
		if _, live := liveProps[p.Name]; live && p.Space == davNamespace {
			return status(method, uri, http.StatusForbidden)
		}
	}
	for _, p := range props {
		replaced := false
		for i, old := range n.props {
			if old.Space == p.Space && old.Name == p.Name {
				n.props[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			n.props = append(n.props, p)
		}
	}
	return nil
}

func (t *memTransport) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	const method = http.MethodGet
	if err := checkCtx(ctx, method, uri); err != nil {
		return nil, err
	}
	key, err := keyOf(method, uri)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[key]
	if !ok {
		return nil, status(method, uri, http.StatusNotFound)
	}
	if n.dir {
		return nil, status(method, uri, http.StatusMethodNotAllowed)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), n.data...))), nil
}

func create(args interface{}) (transport.ITransport, error) {
	c := &config{}
	if err := utils.ConvStructJson(args, c); err != nil {
		return nil, err
	}
	return New(WithCollections(c.Collections...))
}

func init() {
	transport.Register(TransportName, create)
}
