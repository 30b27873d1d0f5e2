// Package eep loads and evaluates EnOcean Equipment Profiles: the
// (RORG, FUNC, TYPE) catalog that describes how to decode a radio
// telegram's payload into named fields.
//
// # Loading order
//
// Store.Load tries, in order, a user-supplied EEP.xml in the config
// directory, the XML bundled with the gateway, and finally a small
// built-in set of profiles covering the most common device families.
// Whichever source is used, custom profiles from YAML files in a
// custom_eep subdirectory are then layered on top and take precedence
// over anything with the same EEP identifier.
//
// # Field decoding
//
// Each profile lists FieldDescriptors describing a bit range of the
// telegram payload, offset from the most significant bit. Decode walks
// the payload once per field: enum fields map a raw integer to a label,
// value fields apply a linear scale, and status/raw fields pass the raw
// integer through unchanged.
package eep
