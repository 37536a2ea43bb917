package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/davclient/errs"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		root string
		rel  string
		want string
	}{
		{"https://dav.example.com/files/", "docs/a.txt", "https://dav.example.com/files/docs/a.txt"},
		{"https://dav.example.com/files/", "/docs/a.txt", "https://dav.example.com/files/docs/a.txt"},
		{"https://dav.example.com/files", "docs/a.txt", "https://dav.example.com/files/docs/a.txt"},
		{"https://dav.example.com/files", "/docs/a.txt", "https://dav.example.com/files/docs/a.txt"},
		{"https://dav.example.com/files/", "/", "https://dav.example.com/files/"},
		{"https://dav.example.com/files/", "/docs/", "https://dav.example.com/files/docs/"},
		{"https://dav.example.com/files/", "/my docs/a b.txt", "https://dav.example.com/files/my%20docs/a%20b.txt"},
		{"https://dav.example.com/files/", "/q?x#y", "https://dav.example.com/files/q%3Fx%23y"},
		{"https://dav.example.com/files/", "/100%", "https://dav.example.com/files/100%25"},
		{"http://localhost:8080", "/a", "http://localhost:8080/a"},
	}
	for _, tst := range tests {
		r, err := New(tst.root)
		require.NoError(t, err)
		got, err := r.Resolve(tst.rel)
		assert.NoError(t, err)
		assert.Equal(t, tst.want, got, "root:%s rel:%s", tst.root, tst.rel)
	}
}

func TestResolveInvalid(t *testing.T) {
	r, err := New("https://dav.example.com/files/")
	require.NoError(t, err)
	for _, rel := range []string{"", "http://x/y", "https://dav.example.com/files/a", "//host/x", "mailto:a@b"} {
		_, err := r.Resolve(rel)
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument), "rel:%s", rel)
	}
}

func TestNewInvalidRoot(t *testing.T) {
	for _, root := range []string{"", "/files/", "dav.example.com/files", "http://"} {
		_, err := New(root)
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument), "root:%s", root)
	}
}

func TestToCanonicalRelative(t *testing.T) {
	r, err := New("https://dav.example.com/files/")
	require.NoError(t, err)
	tests := []struct {
		href string
		want string
	}{
		{"/files/docs/a.txt", "/docs/a.txt"},
		{"/files/docs/", "/docs/"},
		{"/files/", "/"},
		{"/files", "/"},
		{"https://dav.example.com/files/docs/a%20b.txt", "/docs/a b.txt"},
		{"/files/my%20docs/", "/my docs/"},
		{"/filesx/a", "/filesx/a"},
		{"/other/a", "/other/a"},
		{"docs/a", "/docs/a"},
	}
	for _, tst := range tests {
		assert.Equal(t, tst.want, r.ToCanonicalRelative(tst.href), "href:%s", tst.href)
	}
}

func TestCanonicalAtServerRoot(t *testing.T) {
	r, err := New("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "/x/y", r.ToCanonicalRelative("/x/y"))
	assert.Equal(t, "/", r.ToCanonicalRelative("/"))
}

func TestResolveRoundTrip(t *testing.T) {
	roots := []string{
		"https://dav.example.com/files/",
		"https://dav.example.com/files",
		"https://dav.example.com/",
		"https://dav.example.com/remote.php/dav%20files/",
	}
	paths := []string{
		"/", "/a", "a", "/a/", "/a/b/c", "/a b/c d.txt", "/ü/ñ.txt", "/a%2Fb", "/x?y", "/h#t",
		"/a;b,c", "/100%", "/a//b", "/files/a", "plain", "/.hidden", "/a+b=c@d",
	}
	for _, root := range roots {
		r, err := New(root)
		require.NoError(t, err)
		for _, p := range paths {
			u1, err := r.Resolve(p)
			require.NoError(t, err)
			u2, err := r.Resolve(r.ToCanonicalRelative(u1))
			require.NoError(t, err)
			assert.Equal(t, u1, u2, "root:%s path:%s", root, p)
		}
	}
}

func TestHrefToURI(t *testing.T) {
	r, err := New("https://dav.example.com:8443/files/")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com:8443/files/a%20b", r.HrefToURI("/files/a%20b"))
	assert.Equal(t, "https://other/x", r.HrefToURI("https://other/x"))
}

func TestSamePath(t *testing.T) {
	assert.True(t, SamePath("/a/b/", "/a/b"))
	assert.True(t, SamePath("/a/b", "a/b"))
	assert.True(t, SamePath("/", "/"))
	assert.False(t, SamePath("/A/b", "/a/b"))
	assert.False(t, SamePath("/a/b", "/a/b/c"))
	assert.True(t, SamePath("/a/b", "/a//b//"))
	assert.True(t, SamePath("/a/b", "/a/./b/."))
	assert.True(t, SamePath("/", "//"))
	assert.True(t, SamePath("/", "."))
}

func TestParentOf(t *testing.T) {
	tests := map[string]string{
		"/a/b/c": "/a/b",
		"/a/b/":  "/a",
		"/a":     "/",
		"a":      "/",
		"/":      "/",
	}
	for in, want := range tests {
		got, err := ParentOf(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "in:%s", in)
	}
	_, err := ParentOf("")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestLastSegmentName(t *testing.T) {
	assert.Equal(t, "c.txt", LastSegmentName("/a/b/c.txt"))
	assert.Equal(t, "b", LastSegmentName("/a/b/"))
	assert.Equal(t, "a", LastSegmentName("a"))
	assert.Equal(t, "", LastSegmentName("/"))
}

func TestSegments(t *testing.T) {
	segs, err := Segments("/a//b/./c/")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, segs)
	segs, err = Segments("/")
	assert.NoError(t, err)
	assert.Empty(t, segs)
	_, err = Segments("/a/../b")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	_, err = Segments("")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}
