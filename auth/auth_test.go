package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic(t *testing.T) {
	a, err := Create(BasicAuthName, "u", "p")
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodGet, "http://h/", nil)
	a.Apply(req)
	u, p, ok := req.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "u", u)
	assert.Equal(t, "p", p)

	req, _ = http.NewRequest(http.MethodGet, "http://h/", nil)
	NewBasic("", "").Apply(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://h/", nil)
	NewToken("", "abc").Apply(req)
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))

	req, _ = http.NewRequest(http.MethodGet, "http://h/", nil)
	NewToken("OAuth", "abc").Apply(req)
	assert.Equal(t, "OAuth abc", req.Header.Get("Authorization"))
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{BasicAuthName, TokenAuthName}, List())
	_, err := Create("s3_v4", "", "")
	assert.Error(t, err)
}
