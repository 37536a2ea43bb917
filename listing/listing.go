package listing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/mapper"
	"github.com/xxxsen/davclient/resolver"
	"github.com/xxxsen/davclient/transport"
)

type Lister struct {
	t transport.ITransport
	r *resolver.Resolver
	m *mapper.Mapper
}

func New(t transport.ITransport, r *resolver.Resolver, m *mapper.Mapper) *Lister {
	return &Lister{t: t, r: r, m: m}
}

// List runs a PROPFIND on rel, drops the self entry for children listings
// and returns resources ordered by display name ignoring case.
func (l *Lister) List(ctx context.Context, rel string, depth transport.Depth) ([]*entity.Resource, error) {
	uri, err := l.r.Resolve(rel)
	if err != nil {
		return nil, err
	}
	records, err := l.t.Propfind(ctx, uri, depth)
	if err != nil {
		return nil, fmt.Errorf("propfind failed, path:%s, depth:%s, err:%w", rel, depth.String(), err)
	}
	rs := make([]*entity.Resource, 0, len(records))
	for _, rec := range records {
		if depth == transport.DepthChildren && resolver.SamePath(l.r.ToCanonicalRelative(rec.Href), rel) {
			continue
		}
		rs = append(rs, l.m.Map(rec.Href, rec.Props))
	}
	sortByName(rs)
	return rs, nil
}

func sortByName(rs []*entity.Resource) {
	keys := make(map[*entity.Resource]string, len(rs))
	for _, item := range rs {
		keys[item] = strings.ToLower(item.DisplayName)
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return keys[rs[i]] < keys[rs[j]]
	})
}

// GetOne fetches exactly one resource with a depth self listing.
func (l *Lister) GetOne(ctx context.Context, rel string) (*entity.Resource, error) {
	rs, err := l.List(ctx, rel, transport.DepthSelf)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, fmt.Errorf("%w, no resource returned, path:%s", errs.ErrInconsistent, rel)
	}
	if len(rs) > 1 {
		return nil, fmt.Errorf("%w, more than one resource found, path:%s, count:%d", errs.ErrInconsistent, rel, len(rs))
	}
	return rs[0], nil
}
