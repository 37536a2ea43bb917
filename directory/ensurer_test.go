package directory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/davclient/errs"
	"github.com/xxxsen/davclient/listing"
	"github.com/xxxsen/davclient/mapper"
	"github.com/xxxsen/davclient/resolver"
	"github.com/xxxsen/davclient/transport"
	"github.com/xxxsen/davclient/transport/mem"
)

type recordTransport struct {
	transport.ITransport
	mkcols []string
}

func (r *recordTransport) Mkcol(ctx context.Context, uri string) error {
	r.mkcols = append(r.mkcols, uri)
	return r.ITransport.Mkcol(ctx, uri)
}

func newEnsurer(t *testing.T) (*Ensurer, *recordTransport) {
	impl, err := mem.New(mem.WithCollections("/root"))
	require.NoError(t, err)
	rt := &recordTransport{ITransport: impl}
	r, err := resolver.New("mem://local/root/")
	require.NoError(t, err)
	l := listing.New(rt, r, mapper.New(r))
	return NewEnsurer(rt, r, l), rt
}

func TestEnsureCollection(t *testing.T) {
	e, rt := newEnsurer(t)
	ctx := context.Background()
	res, err := e.EnsureCollection(ctx, "a/b/c")
	require.NoError(t, err)
	assert.True(t, res.IsCollection)
	assert.Equal(t, "c", res.DisplayName)
	assert.Equal(t, []string{
		"mem://local/root/a",
		"mem://local/root/a/b",
		"mem://local/root/a/b/c",
	}, rt.mkcols)

	rt.mkcols = nil
	_, err = e.EnsureCollection(ctx, "/a/b/c/")
	require.NoError(t, err)
	assert.Equal(t, 0, len(rt.mkcols))

	_, err = e.EnsureCollection(ctx, "a/b/d")
	require.NoError(t, err)
	assert.Equal(t, 1, len(rt.mkcols))
	assert.True(t, strings.HasSuffix(rt.mkcols[0], "/a/b/d"))
}

func TestEnsureRoot(t *testing.T) {
	e, rt := newEnsurer(t)
	res, err := e.EnsureCollection(context.Background(), "/")
	require.NoError(t, err)
	assert.True(t, res.IsCollection)
	assert.Equal(t, 0, len(rt.mkcols))
}

func TestEnsureOverFile(t *testing.T) {
	e, rt := newEnsurer(t)
	ctx := context.Background()
	require.NoError(t, rt.Put(ctx, "mem://local/root/f", transport.StreamBody(strings.NewReader("x"), 1), "text/plain"))
	_, err := e.EnsureCollection(ctx, "f/sub")
	assert.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrServerError)
}

func TestEnsureRejectsDotDot(t *testing.T) {
	e, _ := newEnsurer(t)
	_, err := e.EnsureCollection(context.Background(), "a/../b")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}
