package resolver

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/xxxsen/davclient/errs"
)

var schemeExp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// Resolver 负责相对路径与服务端绝对地址之间的转换, 不做任何IO
type Resolver struct {
	root     string
	origin   string
	rootPath string
}

func New(root string) (*Resolver, error) {
	if len(root) == 0 {
		return nil, errs.InvalidArgument("empty root uri")
	}
	u, err := url.Parse(root)
	if err != nil {
		return nil, errs.InvalidArgument("parse root uri failed, root:%s, err:%v", root, err)
	}
	if len(u.Scheme) == 0 || len(u.Host) == 0 {
		return nil, errs.InvalidArgument("root uri must be absolute, root:%s", root)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &Resolver{
		root:     u.String(),
		origin:   u.Scheme + "://" + u.Host,
		rootPath: strings.TrimRight(u.Path, "/"),
	}, nil
}

func (r *Resolver) Root() string {
	return r.root
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "//") || schemeExp.MatchString(p)
}

// Resolve turns a root-relative path into the absolute resource uri.
func (r *Resolver) Resolve(rel string) (string, error) {
	if len(rel) == 0 {
		return "", errs.InvalidArgument("empty path")
	}
	if isAbsolute(rel) {
		return "", errs.InvalidArgument("path should be relative, path:%s", rel)
	}
	return join(r.root, escapePath(rel)), nil
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

func join(root string, rel string) string {
	rs := strings.HasSuffix(root, "/")
	ls := strings.HasPrefix(rel, "/")
	switch {
	case rs && ls:
		return root + rel[1:]
	case !rs && !ls:
		return root + "/" + rel
	default:
		return root + rel
	}
}

// ToCanonicalRelative converts a server href into the caller form:
// unescaped, root prefix stripped, leading separator present.
func (r *Resolver) ToCanonicalRelative(href string) string {
	p := href
	if isAbsolute(p) {
		if u, err := url.Parse(p); err == nil {
			p = u.EscapedPath()
		}
	} else if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	if up, err := url.PathUnescape(p); err == nil {
		p = up
	}
	if len(r.rootPath) > 0 {
		if p == r.rootPath {
			p = "/"
		} else if strings.HasPrefix(p, r.rootPath+"/") {
			p = p[len(r.rootPath):]
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// HrefToURI builds the absolute location of a server href.
func (r *Resolver) HrefToURI(href string) string {
	if isAbsolute(href) {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		return r.origin + "/" + href
	}
	return r.origin + href
}

// normalize 去掉重复分隔符, "." 以及结尾的分隔符
func normalize(p string) string {
	return path.Clean("/" + p)
}

// SamePath reports whether two paths name the same resource once cleaned.
// Comparison is case sensitive.
func SamePath(a, b string) bool {
	return normalize(a) == normalize(b)
}

func trimTrailing(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

func ParentOf(rel string) (string, error) {
	if len(rel) == 0 {
		return "", errs.InvalidArgument("empty path")
	}
	p := trimTrailing(rel)
	if idx := strings.LastIndex(p, "/"); idx > 0 {
		return p[:idx], nil
	}
	return "/", nil
}

func LastSegmentName(rel string) string {
	p := trimTrailing(rel)
	if p == "/" {
		return ""
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// Segments splits a path into its non empty segments, root first.
func Segments(rel string) ([]string, error) {
	if len(rel) == 0 {
		return nil, errs.InvalidArgument("empty path")
	}
	items := strings.Split(rel, "/")
	rs := make([]string, 0, len(items))
	for _, item := range items {
		if len(item) == 0 || item == "." {
			continue
		}
		if item == ".." {
			return nil, errs.InvalidArgument("parent segment not allowed, path:%s", rel)
		}
		rs = append(rs, item)
	}
	return rs, nil
}
