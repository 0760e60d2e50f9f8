package rest

import (
	"context"
	"strings"
)

// Request is a single HTTP exchange to perform. Path is relative to the
// connection's base URL and already includes the format extension and any
// query string.
type Request struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string
}

// Response is the outcome of a completed exchange. A Response exists only
// when the server produced a status line; transport failures surface as
// errors instead.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Header returns the named response header, matching case-insensitively.
func (r *Response) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}

	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}

	return ""
}

// Connection performs one HTTP exchange per call. Implementations must not
// follow redirects or retry on their own unless explicitly configured to.
type Connection interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Logger defines the logging interface used throughout the library.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
