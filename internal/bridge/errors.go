package bridge

import "errors"

var (
	// ErrUnknownDevice is returned when a command topic names a device not
	// present in the registry.
	ErrUnknownDevice = errors.New("bridge: unknown device")
)
