package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for common conditions.
var (
	ErrSiteRequired       = errors.New("site URL is required")
	ErrConnectionRequired = errors.New("connection is required")
	ErrUnsupportedValue   = errors.New("unsupported document value")
	ErrTrailingData       = errors.New("trailing data after document")
	ErrDetachedResource   = errors.New("resource is not bound to a site")
	ErrMissingID          = errors.New("resource has no id")
)

// TransportError reports a request that never produced an HTTP status:
// connection failures, timeouts, canceled contexts.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be parsed as a
// document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding document: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ResponseError carries the context of a failed HTTP exchange. It is
// embedded by the status-class error types.
type ResponseError struct {
	Status int
	Path   string
	Body   []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed: %s returned %d", e.Path, e.Status)
}

// NotFoundError reports an HTTP 404 for the requested resource.
type NotFoundError struct {
	ResponseError
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}

// ClientError reports a request the server rejected: any 4xx other than
// 404, and all 3xx statuses (redirects are never followed).
type ClientError struct {
	ResponseError
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: %s returned %d", e.Path, e.Status)
}

// ServerError reports a 5xx response.
type ServerError struct {
	ResponseError
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s returned %d", e.Path, e.Status)
}

// InvalidError reports a 422: the server understood the entity but
// rejected it, typically with field-level validation messages parsed from
// the response body.
type InvalidError struct {
	ClientError
	Errors *ValidationErrors
}

func (e *InvalidError) Error() string {
	if e.Errors != nil {
		if msgs := e.Errors.FullMessages(); len(msgs) > 0 {
			return fmt.Sprintf("resource invalid: %s", strings.Join(msgs, "; "))
		}
	}

	return fmt.Sprintf("resource invalid: %s returned %d", e.Path, e.Status)
}

// Unwrap keeps a rejected entity in the client-error class.
func (e *InvalidError) Unwrap() error { return &e.ClientError }

// ProtocolError reports a success status whose companion data was missing
// or malformed, such as a 201 without a usable Location header.
type ProtocolError struct {
	Status int
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s (status %d)", e.Reason, e.Status)
}

// MissingPrefixParamError reports a prefix template placeholder with no
// supplied value.
type MissingPrefixParamError struct {
	Param    string
	Template string
}

func (e *MissingPrefixParamError) Error() string {
	return fmt.Sprintf("missing prefix parameter %q for template %q", e.Param, e.Template)
}

// GoneError reports an operation on a resource that was already deleted
// through this mapper.
type GoneError struct {
	TypeName string
	ID       string
}

func (e *GoneError) Error() string {
	return fmt.Sprintf("%s(%s) has been deleted", e.TypeName, e.ID)
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError

	return errors.As(err, &notFoundErr)
}

// IsClientError returns true if the error indicates a rejected request
// (4xx other than 404, or a redirect).
func IsClientError(err error) bool {
	var clientErr *ClientError

	return errors.As(err, &clientErr)
}

// IsServerError returns true if the error indicates a server failure (5xx).
func IsServerError(err error) bool {
	var serverErr *ServerError

	return errors.As(err, &serverErr)
}

// IsInvalid returns true if the error indicates the server rejected the
// entity with validation messages (422).
func IsInvalid(err error) bool {
	var invalidErr *InvalidError

	return errors.As(err, &invalidErr)
}

// IsGone returns true if the error indicates the resource was already
// deleted.
func IsGone(err error) bool {
	var goneErr *GoneError

	return errors.As(err, &goneErr)
}

// statusError maps a non-2xx response to its taxonomy error.
func statusError(status int, path string, body []byte) error {
	resp := ResponseError{Status: status, Path: path, Body: body}

	switch {
	case status == http.StatusNotFound:
		return &NotFoundError{ResponseError: resp}
	case status == http.StatusUnprocessableEntity:
		return &InvalidError{
			ClientError: ClientError{ResponseError: resp},
			Errors:      parseValidationErrors(body),
		}
	case status >= 500:
		return &ServerError{ResponseError: resp}
	default:
		return &ClientError{ResponseError: resp}
	}
}
