// Package mapping resolves an EEP identifier to the Home Assistant entity
// configuration used to build MQTT discovery payloads: which field
// shortcuts become which component type, with which device class and unit.
//
// A user-supplied mapping.yaml entry for an EEP ID replaces the compiled-in
// default entirely; there is no per-field merge between the two. A
// mapping's optional "common" entry is layered onto every EEP's result
// afterward and never overrides a per-shortcut key the EEP's mapping
// already defines.
package mapping
