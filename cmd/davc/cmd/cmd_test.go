package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePropArgs(t *testing.T) {
	m, err := parsePropArgs([]string{"color=red", "{urn:x}a=b=c"})
	assert.NoError(t, err)
	assert.Equal(t, "red", m["color"])
	assert.Equal(t, "c", m["{urn:x}a=b"])

	_, err = parsePropArgs([]string{"=x"})
	assert.Error(t, err)
	_, err = parsePropArgs([]string{"novalue"})
	assert.Error(t, err)
}

func TestBuildPutItems(t *testing.T) {
	items, err := buildPutItems(&putArgs{
		files:       []string{"/tmp/a.txt", "./b.bin"},
		dir:         "docs/2024",
		contentType: "text/plain",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "/docs/2024/a.txt", items[0].Target)
	assert.Equal(t, "/docs/2024/b.bin", items[1].Target)
	assert.Equal(t, "text/plain", items[1].ContentType)

	items, err = buildPutItems(&putArgs{files: []string{"/not/exist/c.data"}, target: "x/y.data", dir: "/"})
	assert.NoError(t, err)
	assert.Equal(t, "x/y.data", items[0].Target)
	assert.Equal(t, "application/octet-stream", items[0].ContentType)

	_, err = buildPutItems(&putArgs{})
	assert.Error(t, err)
	_, err = buildPutItems(&putArgs{files: []string{"a", "b"}, target: "c"})
	assert.Error(t, err)
}
