package transport

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Sentinel errors for errors.Is checks against transport failures.
var (
	ErrNetwork      = errors.New("transport: no response received")
	ErrStatus       = errors.New("transport: unexpected status")
	ErrNotFound     = errors.New("transport: not found")
	ErrUnauthorized = errors.New("transport: unauthorized")
	ErrValidation   = errors.New("transport: validation failed")
	ErrDecode       = errors.New("transport: unexpected response shape")
)

// NetworkError is returned when the request produced no HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is an HTTP error status without field-level details.
type StatusError struct {
	Method string
	Path   string
	Status int
	Detail string
	Body   []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrStatus:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// ValidationError carries field-keyed messages, either from an HTTP 400 body
// or from client-side payload validation. Cause is the underlying
// *StatusError for server-side failures.
type ValidationError struct {
	Fields map[string][]string
	Cause  error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Field returns the messages for one field.
func (e *ValidationError) Field(name string) []string {
	return e.Fields[name]
}

func errorFromResponse(method, path string, status int, body []byte) error {
	statusErr := &StatusError{
		Method: method,
		Path:   path,
		Status: status,
		Body:   body,
	}
	parsed := gjson.ParseBytes(body)
	if detail := parsed.Get("detail"); detail.Exists() {
		statusErr.Detail = detail.String()
	}
	if status != http.StatusBadRequest || !parsed.IsObject() {
		return statusErr
	}
	fields := fieldErrors(parsed)
	if len(fields) == 0 {
		return statusErr
	}
	return &ValidationError{Fields: fields, Cause: statusErr}
}

// fieldErrors reads {"field": ["msg", ...]} or {"field": "msg"}; a lone
// "detail" key is a generic message, not a field.
func fieldErrors(body gjson.Result) map[string][]string {
	fields := make(map[string][]string)
	body.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == "detail" {
			return true
		}
		switch {
		case value.IsArray():
			for _, item := range value.Array() {
				if item.Type == gjson.String {
					fields[name] = append(fields[name], item.String())
				} else {
					fields[name] = append(fields[name], item.Raw)
				}
			}
		case value.Type == gjson.String:
			fields[name] = append(fields[name], value.String())
		default:
			fields[name] = append(fields[name], value.Raw)
		}
		return true
	})
	return fields
}
