// Package command encodes symbolic MQTT commands ("on", "off", a cover
// position) into outbound ESP3 RADIO_ERP1 frames addressed to a learned
// device.
//
// The wire-level framing is the same for every device class — rorg,
// command-specific payload, this gateway's sender ID, and the device's
// address as destination — so the only thing that varies per EEP is how a
// symbolic command turns into a payload. That variability is captured as a
// PayloadBuilder, registered per EEP ID in a Registry.
package command
