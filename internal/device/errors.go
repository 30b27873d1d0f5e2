package device

import "errors"

// Domain errors for the device package. Check with errors.Is.
var (
	// ErrNotFound is returned when a device name does not exist.
	ErrNotFound = errors.New("device: not found")

	// ErrExists is returned when creating a device whose name is already in use.
	ErrExists = errors.New("device: already exists")

	// ErrDuplicateAddress is returned when a device's normalised address
	// collides with an existing device's address. See the duplicate-address
	// design note: this gateway rejects the collision at insert time rather
	// than tolerating first-match lookups.
	ErrDuplicateAddress = errors.New("device: address already in use")

	// ErrInvalidName is returned for an empty device name.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidAddress is returned when an address cannot be parsed as a
	// 4-byte hex value.
	ErrInvalidAddress = errors.New("device: invalid address")
)
