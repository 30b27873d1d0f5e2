// Package ringbuffer keeps a fixed-capacity, oldest-first log of recently
// seen telegrams for debugging and a separate fixed-capacity list of
// senders that don't resolve to a registered device.
//
// Neither list is meant to be authoritative history; a telegram_log table
// in the database package fills that role. This package is the cheap,
// always-available in-memory view a live dashboard or diagnostics command
// reads from.
package ringbuffer
