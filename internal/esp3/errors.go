package esp3

import "errors"

// Frame-level errors. Check with errors.Is.
var (
	// ErrHeaderCRC names a header CRC mismatch. Parser does not return it:
	// it drops the sync byte and resumes hunting instead.
	ErrHeaderCRC = errors.New("esp3: header crc mismatch")

	// ErrDataCRC names a data CRC mismatch. Parser does not return it: it
	// drops the sync byte and resumes hunting instead.
	ErrDataCRC = errors.New("esp3: data crc mismatch")

	// ErrFrameTooShort is returned by DecodeRadioTelegram when the data
	// block is too short to be a valid radio telegram.
	ErrFrameTooShort = errors.New("esp3: frame too short")

	// ErrUnsupportedPacketType is returned by callers that only know how
	// to handle a subset of packet types.
	ErrUnsupportedPacketType = errors.New("esp3: unsupported packet type")
)
