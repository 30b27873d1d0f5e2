// Package esp3 implements the EnOcean Serial Protocol 3 (ESP3) wire format:
// framing, CRC validation, and the packet types used for radio telegrams.
//
// # Frame layout
//
//	┌──────┬─────────────┬──────────────┬──────────────┬───────────┬──────────┬────────────┬──────────┐
//	│ sync │ data length │ optional len │ packet type  │ header CRC│   data   │  optional  │ data CRC │
//	│ 0x55 │   2 bytes   │    1 byte    │    1 byte    │  1 byte   │ data_len │ optional_  │  1 byte  │
//	│      │  big-endian │              │              │           │  bytes   │ len bytes  │          │
//	└──────┴─────────────┴──────────────┴──────────────┴───────────┴──────────┴────────────┴──────────┘
//
// header CRC covers the 4 bytes following sync (length, optional length,
// packet type). data CRC covers the data block concatenated with the
// optional block.
//
// # Parsing
//
// Parser is a byte-at-a-time state machine (hunt for sync, accumulate
// header, accumulate body) so it can be fed directly from a streaming
// reader without requiring a fully buffered packet up front. A CRC
// mismatch at any stage discards one byte and resumes hunting, matching
// how the reference receiver recovers from a corrupted stream without
// losing synchronization for long.
package esp3
