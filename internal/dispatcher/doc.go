// Package dispatcher implements the gateway's core pipeline: every
// RADIO_ERP1 frame handed up from the transport is parsed into a
// RadioTelegram, checked for a teach-in, resolved against the device
// registry and EEP store, decoded, and published — in that order, always
// in the order frames arrive.
//
// Dispatcher holds read-only references to the device registry, EEP
// store, and ring buffer; it owns none of them. It is driven entirely by
// calls to Handle, made from the single goroutine that reads the
// transport's frame channel, so it needs no internal locking of its own.
package dispatcher
