package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/retry"
	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/resolver"
	"github.com/xxxsen/davclient/webdav"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type IClient interface {
	CreateCollection(ctx context.Context, p string) (*entity.Resource, error)
	PutResourceFile(ctx context.Context, p string, file string, contentType string, opts ...webdav.PutOption) (*entity.Resource, error)
}

type Item struct {
	File        string
	Target      string
	ContentType string
}

// Uploader 并发上传多个本地文件, 文件源可重放, 失败时按配置重试
type Uploader struct {
	c *config
}

func New(opts ...Option) (*Uploader, error) {
	c := &config{
		Thread:        4,
		Retry:         3,
		RetryInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Client == nil {
		return nil, fmt.Errorf("no client found")
	}
	if c.Thread <= 0 {
		c.Thread = 1
	}
	if c.Retry <= 0 {
		c.Retry = 1
	}
	return &Uploader{c: c}, nil
}

func (u *Uploader) ensureParents(ctx context.Context, items []*Item) error {
	dirs := make(map[string]struct{}, len(items))
	for _, item := range items {
		parent, err := resolver.ParentOf(item.Target)
		if err != nil {
			return err
		}
		dirs[parent] = struct{}{}
	}
	list := make([]string, 0, len(dirs))
	for dir := range dirs {
		list = append(list, dir)
	}
	sort.Strings(list)
	for _, dir := range list {
		if _, err := u.c.Client.CreateCollection(ctx, dir); err != nil {
			return fmt.Errorf("ensure collection failed, dir:%s, err:%w", dir, err)
		}
	}
	return nil
}

// retryable 只有传输失败与服务端5xx值得重试, 其余错误重试也不会成功
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, errs.ErrTransportFailure) {
		return true
	}
	if code, ok := errs.StatusCode(err); ok {
		return code >= 500
	}
	return false
}

func (u *Uploader) uploadOne(ctx context.Context, item *Item) (*entity.Resource, error) {
	var (
		res       *entity.Resource
		permanent error
	)
	if err := retry.RetryDo(ctx, uint32(u.c.Retry-1), u.c.RetryInterval, func(ctx context.Context) error {
		if permanent != nil {
			return nil
		}
		r, err := u.c.Client.PutResourceFile(ctx, item.Target, item.File, item.ContentType)
		if err != nil {
			if !retryable(ctx, err) {
				permanent = err
				return nil
			}
			logutil.GetLogger(ctx).Error("upload file failed, wait retry", zap.Error(err), zap.String("file", item.File), zap.String("target", item.Target))
			return err
		}
		res = r
		return nil
	}); err != nil {
		return nil, err
	}
	if permanent != nil {
		return nil, permanent
	}
	return res, nil
}

// Upload returns the uploaded resources in the order of items.
func (u *Uploader) Upload(ctx context.Context, items []*Item) ([]*entity.Resource, error) {
	if u.c.Parents {
		if err := u.ensureParents(ctx, items); err != nil {
			return nil, err
		}
	}
	rs := make([]*entity.Resource, len(items))
	eg, subctx := errgroup.WithContext(ctx)
	eg.SetLimit(u.c.Thread)
	for idx, item := range items {
		eg.Go(func() error {
			start := time.Now()
			res, err := u.uploadOne(subctx, item)
			if err != nil {
				return fmt.Errorf("upload file failed, file:%s, err:%w", item.File, err)
			}
			rs[idx] = res
			var size int64
			if info, err := os.Stat(item.File); err == nil {
				size = info.Size()
			}
			cost := time.Since(start)
			speed := "-"
			if ms := int64(cost / time.Millisecond); ms > 0 {
				speed = humanize.IBytes(uint64(size*1000/ms)) + "/s"
			}
			logutil.GetLogger(ctx).Info("file upload finish", zap.String("file", item.File), zap.String("target", item.Target),
				zap.String("size", humanize.IBytes(uint64(size))), zap.Duration("cost", cost), zap.String("speed", speed))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logutil.GetLogger(ctx).Error("batch upload failed", zap.Error(err))
		return nil, err
	}
	return rs, nil
}
