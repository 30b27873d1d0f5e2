// Package transport owns the byte-level connection to the EnOcean radio
// module: either a local serial port or, when the configured address has a
// "tcp:" prefix, a TCP socket to a network-attached transceiver.
//
// # Concurrency
//
// Reads block on the underlying port, so a dedicated goroutine runs the
// blocking read loop and hands raw bytes to the esp3 parser; decoded
// frames are delivered to callers through a bounded channel. A slow
// consumer drops the oldest queued frame rather than blocking the reader
// and falling behind the transceiver, the same trade-off the KNX bridge
// makes with its callback queue.
package transport
