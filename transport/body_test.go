package transport

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBodyOpensOnce(t *testing.T) {
	b := StreamBody(strings.NewReader("hello"), 5)
	assert.False(t, b.Replayable())
	assert.Equal(t, int64(5), b.Size())
	rc, err := b.Open()
	require.NoError(t, err)
	raw, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
	assert.NoError(t, rc.Close())
	_, err = b.Open()
	assert.True(t, errors.Is(err, ErrBodyConsumed))
	assert.Equal(t, int64(-1), StreamBody(strings.NewReader(""), -10).Size())
}

func TestFileBodyReplay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("abc"), 0644))
	b, err := FileBody(file)
	require.NoError(t, err)
	assert.True(t, b.Replayable())
	assert.Equal(t, int64(3), b.Size())
	for i := 0; i < 2; i++ {
		rc, err := b.Open()
		require.NoError(t, err)
		raw, err := io.ReadAll(rc)
		assert.NoError(t, err)
		assert.Equal(t, "abc", string(raw))
		_ = rc.Close()
	}
	_, err = FileBody(filepath.Dir(file))
	assert.Error(t, err)
	_, err = FileBody(file + ".missing")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	Register("test_fake", func(args interface{}) (ITransport, error) {
		return nil, errors.New("fake")
	})
	assert.Contains(t, List(), "test_fake")
	_, err := Create("test_fake", nil)
	assert.EqualError(t, err, "fake")
	_, err = Create("not_exist", nil)
	assert.Error(t, err)
}
