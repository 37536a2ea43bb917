package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	file := filepath.Join(t.TempDir(), "davc_config.json")
	require.NoError(t, os.WriteFile(file, []byte(data), 0644))
	return file
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(writeConfig(t, `{"server": "https://dav.example.com/files/"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/files/", c.Server)
	assert.Equal(t, "http", c.Transport)
	assert.Equal(t, int64(600), c.Timeout)
	assert.Equal(t, 4, c.Thread)
	assert.Equal(t, 3, c.Retry)
	assert.Equal(t, "info", c.LogInfo.Level)
	assert.True(t, c.LogInfo.Console)
	assert.Nil(t, c.TransportConfig)
}

func TestParseFull(t *testing.T) {
	c, err := Parse(writeConfig(t, `{
		"server": "https://dav.example.com/files/",
		"transport": "http",
		"transport_config": {"auth_kind": "basic", "user": "u", "password": "p"},
		"thread": 8,
		"retry": 1
	}`))
	require.NoError(t, err)
	assert.Equal(t, 8, c.Thread)
	assert.Equal(t, 1, c.Retry)
	args, ok := c.TransportConfig.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u", args["user"])
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(writeConfig(t, `{}`))
	assert.Error(t, err)
	_, err = Parse(writeConfig(t, `{bad json`))
	assert.Error(t, err)
	_, err = Parse(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
