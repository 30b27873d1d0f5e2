// Package discovery builds Home Assistant MQTT discovery payloads for
// decoded EnOcean fields.
//
// One payload is built per (device, field shortcut) pair from the
// device's effective mapping.Mapping; the payload's shape depends on the
// entity's component (sensor, binary_sensor, switch, light, cover,
// climate, fan) and on mapping.Entity's optional Brightness flag.
// Only the fields that mapping.Entity defines are emitted: keys of a
// mapping.yaml entry that mapping.Entity does not define are dropped when
// the file is parsed and are not passed through to the payload.
package discovery
