package webdav

import (
	"io"
	"sync"

	"github.com/xxxsen/davclient/resolver"
)

// ResourceStream 持有GET响应的body, 调用方必须Close
type ResourceStream struct {
	path string
	uri  string
	rc   io.ReadCloser
	once sync.Once
	err  error
}

func newResourceStream(path string, uri string, rc io.ReadCloser) *ResourceStream {
	return &ResourceStream{path: path, uri: uri, rc: rc}
}

func (s *ResourceStream) Read(p []byte) (int, error) {
	return s.rc.Read(p)
}

// Close releases the connection, calling it more than once is fine.
func (s *ResourceStream) Close() error {
	s.once.Do(func() {
		s.err = s.rc.Close()
	})
	return s.err
}

func (s *ResourceStream) Path() string {
	return s.path
}

func (s *ResourceStream) URI() string {
	return s.uri
}

func (s *ResourceStream) Filename() string {
	return resolver.LastSegmentName(s.path)
}
