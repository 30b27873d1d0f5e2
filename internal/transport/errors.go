package transport

import "errors"

// Errors returned by Connect and the port implementations. Check with
// errors.Is.
var (
	// ErrConnectFailed wraps the underlying dial/open error.
	ErrConnectFailed = errors.New("transport: connect failed")

	// ErrClosed is returned by operations attempted after Close.
	ErrClosed = errors.New("transport: closed")
)
