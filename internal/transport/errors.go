// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when the device did not answer in time.
	ErrTimeout = errors.New("transport: timeout")
	// ErrShortResponse is returned when a response carries fewer
	// registers than requested.
	ErrShortResponse = errors.New("transport: response length mismatch")
	// ErrClosed is returned after the link was released.
	ErrClosed = errors.New("transport: link closed")
)

// ExceptionError is a Modbus exception response.
type ExceptionError struct {
	Function  uint8
	Exception uint8
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d", e.Function, e.Exception)
}

// Code exposes the exception code.
func (e *ExceptionError) Code() uint16 { return uint16(e.Exception) }

// ErrorCode extracts a best-effort uint16 code from an error without
// assuming concrete types. Errors without a code map to 1.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 1
}

// Reason is a short label for logs and metrics.
func Reason(err error) string {
	var ex *ExceptionError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrShortResponse):
		return "short_response"
	case errors.Is(err, ErrClosed):
		return "closed"
	case errors.As(err, &ex):
		return "exception"
	default:
		return "io"
	}
}
