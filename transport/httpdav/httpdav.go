package httpdav

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/utils"
	"github.com/xxxsen/davclient/auth"
	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/transport"
	"go.uber.org/zap"
)

const (
	TransportName = "http"

	methodPropfind  = "PROPFIND"
	methodProppatch = "PROPPATCH"
	methodMkcol     = "MKCOL"
	methodCopy      = "COPY"
	methodMove      = "MOVE"
	methodLock      = "LOCK"
	methodUnlock    = "UNLOCK"

	xmlContentType     = `application/xml; charset="utf-8"`
	defaultLockOwner   = "davclient"
	maxDrainBodySize   = 64 * 1024
	maxMultistatusSize = 64 * 1024 * 1024
)

var propNameExp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._\-]*$`)

type httpTransport struct {
	c      *config
	client *http.Client
	auth   auth.IAuth
}

func New(opts ...Option) (transport.ITransport, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return newTransport(c)
}

func newTransport(c *config) (transport.ITransport, error) {
	t := &httpTransport{c: c, client: c.client, auth: c.auth}
	if t.client == nil {
		t.client = buildClient(c)
	}
	if t.auth == nil && len(c.AuthKind) > 0 {
		secret := c.Password
		user := c.User
		if c.AuthKind == auth.TokenAuthName {
			user, secret = c.TokenType, c.Token
		}
		a, err := auth.Create(c.AuthKind, user, secret)
		if err != nil {
			return nil, err
		}
		t.auth = a
	}
	return t, nil
}

func buildClient(c *config) *http.Client {
	idle := c.MaxIdleConns
	if idle <= 0 {
		idle = 8
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		IdleConnTimeout:     30 * time.Second,
		MaxIdleConns:        idle,
		MaxIdleConnsPerHost: idle,
	}
	if c.InsecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   time.Duration(c.Timeout) * time.Second,
		Transport: tr,
	}
}

func (t *httpTransport) Name() string {
	return TransportName
}

func (t *httpTransport) newRequest(ctx context.Context, method string, uri string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, errs.InvalidArgument("build request failed, method:%s, uri:%s, err:%v", method, uri, err)
	}
	if t.auth != nil {
		t.auth.Apply(req)
	}
	if len(t.c.UserAgent) > 0 {
		req.Header.Set("User-Agent", t.c.UserAgent)
	}
	return req, nil
}

func (t *httpTransport) send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()
	rsp, err := t.client.Do(req)
	if err != nil {
		logutil.GetLogger(ctx).Error("send webdav request failed", zap.Error(err), zap.String("method", req.Method), zap.String("uri", req.URL.String()))
		return nil, errs.Transport(req.Method, req.URL.String(), err)
	}
	logutil.GetLogger(ctx).Debug("send webdav request finish", zap.String("method", req.Method), zap.String("uri", req.URL.String()),
		zap.Int("code", rsp.StatusCode), zap.Duration("cost", time.Since(start)))
	return rsp, nil
}

func drainClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, maxDrainBodySize))
	_ = rc.Close()
}

// exec sends a request whose response body is not needed.
func (t *httpTransport) exec(req *http.Request) error {
	rsp, err := t.send(req)
	if err != nil {
		return err
	}
	defer drainClose(rsp.Body)
	if rsp.StatusCode == http.StatusMultiStatus {
		return &errs.ServerError{Method: req.Method, URI: req.URL.String(), Code: rsp.StatusCode}
	}
	return errs.FromStatus(req.Method, req.URL.String(), rsp.StatusCode)
}

func (t *httpTransport) readBody(req *http.Request, rsp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(rsp.Body, maxMultistatusSize))
	if err != nil {
		return nil, errs.Transport(req.Method, req.URL.String(), err)
	}
	return raw, nil
}

func (t *httpTransport) Propfind(ctx context.Context, uri string, depth transport.Depth) ([]*transport.Record, error) {
	body, err := encodeRequest(&propfindRequest{XMLNS: davNamespace, AllProp: &struct{}{}})
	if err != nil {
		return nil, err
	}
	req, err := t.newRequest(ctx, methodPropfind, uri, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Depth", depth.String())
	req.Header.Set("Content-Type", xmlContentType)
	rsp, err := t.send(req)
	if err != nil {
		return nil, err
	}
	defer drainClose(rsp.Body)
	if err := errs.FromStatus(methodPropfind, uri, rsp.StatusCode); err != nil {
		return nil, err
	}
	if rsp.StatusCode != http.StatusMultiStatus && rsp.StatusCode != http.StatusOK {
		return nil, nil
	}
	raw, err := t.readBody(req, rsp)
	if err != nil {
		return nil, err
	}
	rs, err := parseRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("%w, uri:%s, err:%w", errs.ErrInconsistent, uri, err)
	}
	return rs, nil
}

func (t *httpTransport) Mkcol(ctx context.Context, uri string) error {
	req, err := t.newRequest(ctx, methodMkcol, uri, nil)
	if err != nil {
		return err
	}
	return t.exec(req)
}

func (t *httpTransport) Delete(ctx context.Context, uri string) error {
	req, err := t.newRequest(ctx, http.MethodDelete, uri, nil)
	if err != nil {
		return err
	}
	return t.exec(req)
}

func (t *httpTransport) Put(ctx context.Context, uri string, body transport.IBody, contentType string) error {
	rc, err := body.Open()
	if err != nil {
		return errs.Transport(http.MethodPut, uri, err)
	}
	req, err := t.newRequest(ctx, http.MethodPut, uri, rc)
	if err != nil {
		_ = rc.Close()
		return err
	}
	if size := body.Size(); size == 0 {
		_ = rc.Close()
		req.Body = http.NoBody
		req.ContentLength = 0
	} else if size > 0 {
		req.ContentLength = size
	}
	if body.Replayable() {
		req.GetBody = body.Open
	}
	if len(contentType) > 0 {
		req.Header.Set("Content-Type", contentType)
	}
	return t.exec(req)
}

func overwriteFlag(v bool) string {
	if v {
		return "T"
	}
	return "F"
}

func (t *httpTransport) Copy(ctx context.Context, src string, dst string, overwrite bool, shallow bool) error {
	req, err := t.newRequest(ctx, methodCopy, src, nil)
	if err != nil {
		return err
	}
	depth := "infinity"
	if shallow {
		depth = "0"
	}
	req.Header.Set("Destination", dst)
	req.Header.Set("Overwrite", overwriteFlag(overwrite))
	req.Header.Set("Depth", depth)
	return t.exec(req)
}

func (t *httpTransport) Move(ctx context.Context, src string, dst string, overwrite bool) error {
	req, err := t.newRequest(ctx, methodMove, src, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Destination", dst)
	req.Header.Set("Overwrite", overwriteFlag(overwrite))
	req.Header.Set("Depth", "infinity")
	return t.exec(req)
}

func timeoutHeader(d time.Duration) string {
	if d <= 0 {
		return "Infinite"
	}
	sec := int64((d + time.Second - 1) / time.Second)
	return "Second-" + strconv.FormatInt(sec, 10)
}

func (t *httpTransport) Lock(ctx context.Context, uri string, token string, timeout time.Duration) (string, error) {
	var body io.Reader
	if len(token) == 0 {
		raw, err := encodeRequest(&lockInfoRequest{
			XMLNS:     davNamespace,
			LockScope: lockScope{Exclusive: &struct{}{}},
			LockType:  lockType{Write: &struct{}{}},
			Owner:     &lockOwner{Href: defaultLockOwner},
		})
		if err != nil {
			return "", err
		}
		body = bytes.NewReader(raw)
	}
	req, err := t.newRequest(ctx, methodLock, uri, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Timeout", timeoutHeader(timeout))
	if len(token) > 0 {
		req.Header.Set("If", "(<"+token+">)")
	} else {
		req.Header.Set("Content-Type", xmlContentType)
	}
	rsp, err := t.send(req)
	if err != nil {
		return "", err
	}
	defer drainClose(rsp.Body)
	if err := errs.FromStatus(methodLock, uri, rsp.StatusCode); err != nil {
		return "", err
	}
	if len(token) > 0 {
		return token, nil
	}
	raw, err := t.readBody(req, rsp)
	if err != nil {
		return "", err
	}
	lockToken := parseLockToken(rsp.Header.Get("Lock-Token"), raw)
	if len(lockToken) == 0 {
		return "", fmt.Errorf("%w, no lock token returned, uri:%s", errs.ErrInconsistent, uri)
	}
	return lockToken, nil
}

func (t *httpTransport) Unlock(ctx context.Context, uri string, token string) error {
	req, err := t.newRequest(ctx, methodUnlock, uri, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Lock-Token", "<"+token+">")
	return t.exec(req)
}

func (t *httpTransport) Proppatch(ctx context.Context, uri string, props []entity.Property) error {
	for _, p := range props {
		if !propNameExp.MatchString(p.Name) {
			return errs.InvalidArgument("invalid property name, name:%s", p.Name)
		}
	}
	req, err := t.newRequest(ctx, methodProppatch, uri, bytes.NewReader(buildPropertyUpdate(props)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", xmlContentType)
	rsp, err := t.send(req)
	if err != nil {
		return err
	}
	defer drainClose(rsp.Body)
	if err := errs.FromStatus(methodProppatch, uri, rsp.StatusCode); err != nil {
		return err
	}
	if rsp.StatusCode != http.StatusMultiStatus {
		return nil
	}
	raw, err := t.readBody(req, rsp)
	if err != nil {
		return err
	}
	code, err := firstFailure(raw)
	if err != nil {
		return fmt.Errorf("%w, uri:%s, err:%w", errs.ErrInconsistent, uri, err)
	}
	if code != 0 {
		return &errs.ServerError{Method: methodProppatch, URI: uri, Code: code}
	}
	return nil
}

func (t *httpTransport) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := t.newRequest(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	rsp, err := t.send(req)
	if err != nil {
		return nil, err
	}
	if err := errs.FromStatus(http.MethodGet, uri, rsp.StatusCode); err != nil {
		drainClose(rsp.Body)
		return nil, err
	}
	// 只接受完整内容, 204/206 等都不是资源本身
	if rsp.StatusCode != http.StatusOK {
		drainClose(rsp.Body)
		return nil, &errs.ServerError{Method: http.MethodGet, URI: uri, Code: rsp.StatusCode}
	}
	return rsp.Body, nil
}

func create(args interface{}) (transport.ITransport, error) {
	c := &config{}
	if err := utils.ConvStructJson(args, c); err != nil {
		return nil, err
	}
	return newTransport(c)
}

func init() {
	transport.Register(TransportName, create)
}
