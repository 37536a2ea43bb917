package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentETag(t *testing.T) {
	a := ContentETag([]byte("hello"))
	b := ContentETag([]byte("hello"))
	c := ContentETag([]byte("world"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "\"") && strings.HasSuffix(a, "\""))
	assert.Len(t, a, 18)
}
