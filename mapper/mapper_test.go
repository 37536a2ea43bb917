package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/davclient/entity"
	"github.com/xxxsen/davclient/resolver"
)

func newMapper(t *testing.T) *Mapper {
	r, err := resolver.New("https://dav.example.com/files/")
	require.NoError(t, err)
	return New(r)
}

func TestMapCollection(t *testing.T) {
	m := newMapper(t)
	res := m.Map("/files/docs/", []entity.Property{
		{Space: "DAV:", Name: "resourcetype", Value: `<D:collection xmlns:D="DAV:"/>`},
		{Space: "DAV:", Name: "getlastmodified", Value: "Mon, 12 Jan 2026 10:00:00 GMT"},
	})
	assert.True(t, res.IsCollection)
	assert.Equal(t, "docs", res.DisplayName)
	assert.Equal(t, "/files/docs/", res.Href)
	assert.Equal(t, "https://dav.example.com/files/docs/", res.URI)
	assert.Equal(t, []entity.Property{
		{Space: "DAV:", Name: "getlastmodified", Value: "Mon, 12 Jan 2026 10:00:00 GMT"},
	}, res.Properties)
}

func TestMapFile(t *testing.T) {
	m := newMapper(t)
	res := m.Map("/files/docs/a%20b.txt", []entity.Property{
		{Space: "DAV:", Name: "resourcetype", Value: ""},
		{Space: "DAV:", Name: "displayname", Value: "Report"},
		{Space: "DAV:", Name: "getcontentlength", Value: "12"},
		{Space: "DAV:", Name: "getetag", Value: ""},
		{Space: "urn:x", Name: "author", Value: "jane"},
	})
	assert.False(t, res.IsCollection)
	assert.Equal(t, "Report", res.DisplayName)
	assert.Equal(t, []entity.Property{
		{Space: "DAV:", Name: "getcontentlength", Value: "12"},
		{Space: "urn:x", Name: "author", Value: "jane"},
	}, res.Properties)
}

func TestMapFallbackName(t *testing.T) {
	m := newMapper(t)
	res := m.Map("/files/docs/a%20b.txt", nil)
	assert.Equal(t, "a b.txt", res.DisplayName)
	assert.Empty(t, res.Properties)

	res = m.Map("/files/", []entity.Property{{Space: "DAV:", Name: "displayname", Value: ""}})
	assert.Equal(t, "", res.DisplayName)
}

func TestForeignDisplayNameIsKept(t *testing.T) {
	m := newMapper(t)
	res := m.Map("/files/a", []entity.Property{{Space: "urn:x", Name: "displayname", Value: "other"}})
	assert.Equal(t, "a", res.DisplayName)
	assert.Equal(t, []entity.Property{{Space: "urn:x", Name: "displayname", Value: "other"}}, res.Properties)
}
