package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("resource not found")
	ErrInconsistent     = errors.New("inconsistent server response")
	ErrTransportFailure = errors.New("transport failure")
	ErrServerError      = errors.New("server error")
)

// ServerError 服务端返回了非预期的状态码
type ServerError struct {
	Method string
	URI    string
	Code   int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error, method:%s, uri:%s, code:%d(%s)", e.Method, e.URI, e.Code, http.StatusText(e.Code))
}

func (e *ServerError) Is(target error) bool {
	return target == ErrServerError
}

// FromStatus maps a response status onto the error kinds, 2xx is nil.
func FromStatus(method string, uri string, code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	if code == http.StatusNotFound || code == http.StatusGone {
		return fmt.Errorf("%w, method:%s, uri:%s, code:%d", ErrNotFound, method, uri, code)
	}
	return &ServerError{Method: method, URI: uri, Code: code}
}

func Transport(method string, uri string, err error) error {
	return fmt.Errorf("%w, method:%s, uri:%s, err:%w", ErrTransportFailure, method, uri, err)
}

func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w, %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// StatusCode extracts the code carried by a ServerError.
func StatusCode(err error) (int, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
