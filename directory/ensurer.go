package directory

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/listing"
	"github.com/xxxsen/davclient/resolver"
	"github.com/xxxsen/davclient/transport"
	"go.uber.org/zap"
)

type Ensurer struct {
	t transport.ITransport
	r *resolver.Resolver
	l *listing.Lister
}

func NewEnsurer(t transport.ITransport, r *resolver.Resolver, l *listing.Lister) *Ensurer {
	return &Ensurer{t: t, r: r, l: l}
}

// EnsureCollection 逐级检查并创建目录, 返回最后一级目录的信息
func (e *Ensurer) EnsureCollection(ctx context.Context, rel string) (*entity.Resource, error) {
	items, err := resolver.Segments(rel)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return e.l.GetOne(ctx, "/")
	}
	var (
		acc string
		res *entity.Resource
	)
	for _, item := range items {
		acc = acc + "/" + item
		res, err = e.ensureOne(ctx, acc)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (e *Ensurer) ensureOne(ctx context.Context, rel string) (*entity.Resource, error) {
	res, err := e.l.GetOne(ctx, rel)
	if err == nil {
		return res, nil
	}
	if !errs.IsNotFound(err) {
		return nil, fmt.Errorf("stat collection failed, path:%s, err:%w", rel, err)
	}
	uri, err := e.r.Resolve(rel)
	if err != nil {
		return nil, err
	}
	if err := e.t.Mkcol(ctx, uri); err != nil {
		logutil.GetLogger(ctx).Error("create collection failed", zap.Error(err), zap.String("path", rel))
		return nil, fmt.Errorf("mkcol failed, path:%s, err:%w", rel, err)
	}
	logutil.GetLogger(ctx).Info("collection created", zap.String("path", rel), zap.String("uri", uri))
	return e.l.GetOne(ctx, rel)
}
