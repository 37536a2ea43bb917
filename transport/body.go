package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var ErrBodyConsumed = errors.New("stream body already consumed")

// IBody PUT请求体, 可重放的请求体允许传输层在重定向/重试时重新打开
type IBody interface {
	Open() (io.ReadCloser, error)
	// Size returns the content length, -1 when unknown.
	Size() int64
	Replayable() bool
}

type streamBody struct {
	mu   sync.Mutex
	used bool
	r    io.Reader
	size int64
}

// StreamBody wraps a caller owned reader, it can be opened once and
// closing it never closes the underlying reader.
func StreamBody(r io.Reader, size int64) IBody {
	if size < 0 {
		size = -1
	}
	return &streamBody{r: r, size: size}
}

func (s *streamBody) Open() (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used {
		return nil, ErrBodyConsumed
	}
	s.used = true
	return io.NopCloser(s.r), nil
}

func (s *streamBody) Size() int64 {
	return s.size
}

func (s *streamBody) Replayable() bool {
	return false
}

type fileBody struct {
	file string
	size int64
}

func FileBody(file string) (IBody, error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("stat file failed, file:%s, err:%w", file, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("file body should not be a directory, file:%s", file)
	}
	return &fileBody{file: file, size: info.Size()}, nil
}

func (f *fileBody) Open() (io.ReadCloser, error) {
	return os.Open(f.file)
}

func (f *fileBody) Size() int64 {
	return f.size
}

func (f *fileBody) Replayable() bool {
	return true
}
