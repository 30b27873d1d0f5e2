package command

import "errors"

// Domain errors for the command package. Check with errors.Is.
var (
	// ErrNoBuilder is returned when a device's EEP has no registered
	// payload builder.
	ErrNoBuilder = errors.New("command: no payload builder registered for eep")

	// ErrNoSenderID is returned when encoding a command for a device that
	// has no sender_id configured, so this gateway has no address to
	// transmit from.
	ErrNoSenderID = errors.New("command: device has no sender_id configured")

	// ErrInvalidAddress is returned when a device or sender address
	// cannot be parsed as 4 bytes of hex.
	ErrInvalidAddress = errors.New("command: invalid address")

	// ErrUnknownCommand is returned by a builder that does not recognise
	// the symbolic command name it was asked to encode.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrInvalidValue is returned by a builder when value cannot be
	// parsed for the command it's encoding.
	ErrInvalidValue = errors.New("command: invalid value")
)
