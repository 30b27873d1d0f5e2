package mqtt

import (
	"fmt"
	"regexp"
	"strings"
)

// Topics builds the gateway's MQTT topic names. Both prefixes are
// operator-configurable (config.MQTTConfig.Prefix / DiscoveryPrefix), so
// Topics carries them rather than hardcoding a single scheme.
//
//	topics := mqtt.NewTopics("enocean", "homeassistant")
//	topics.DeviceState("kitchen-switch")
//	// Returns: "enocean/kitchen-switch/state"
type Topics struct {
	prefix          string
	discoveryPrefix string
}

// NewTopics returns a Topics builder for the given gateway and discovery
// prefixes.
func NewTopics(prefix, discoveryPrefix string) Topics {
	return Topics{prefix: prefix, discoveryPrefix: discoveryPrefix}
}

// Status returns the gateway's own availability topic, published
// retained as "online"/"offline" and used as the LWT target.
//
// Example: enocean/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.prefix)
}

// DeviceState returns the retained state topic for a learned device.
//
// Example: enocean/kitchen-switch/state
func (t Topics) DeviceState(deviceName string) string {
	return fmt.Sprintf("%s/%s/state", t.prefix, deviceName)
}

// DeviceSet returns the command topic a device listens on for generic
// (on/off, or raw value) commands.
//
// Example: enocean/kitchen-switch/set
func (t Topics) DeviceSet(deviceName string) string {
	return fmt.Sprintf("%s/%s/set", t.prefix, deviceName)
}

// AllDeviceSet returns the wildcard subscription pattern matching every
// device's command topic.
//
// Pattern: enocean/+/set
func (t Topics) AllDeviceSet() string {
	return fmt.Sprintf("%s/+/set", t.prefix)
}

// DeviceBrightnessSet returns the command topic for dimmable devices.
//
// Example: enocean/kitchen-dimmer/brightness/set
func (t Topics) DeviceBrightnessSet(deviceName string) string {
	return fmt.Sprintf("%s/%s/brightness/set", t.prefix, deviceName)
}

// AllDeviceBrightnessSet returns the wildcard subscription pattern
// matching every device's brightness command topic.
//
// Pattern: enocean/+/brightness/set
func (t Topics) AllDeviceBrightnessSet() string {
	return fmt.Sprintf("%s/+/brightness/set", t.prefix)
}

// DevicePositionSet returns the command topic for cover/blind devices.
//
// Example: enocean/living-room-blind/position/set
func (t Topics) DevicePositionSet(deviceName string) string {
	return fmt.Sprintf("%s/%s/position/set", t.prefix, deviceName)
}

// AllDevicePositionSet returns the wildcard subscription pattern matching
// every device's position command topic.
//
// Pattern: enocean/+/position/set
func (t Topics) AllDevicePositionSet() string {
	return fmt.Sprintf("%s/+/position/set", t.prefix)
}

// DiscoveryConfig returns the Home Assistant MQTT discovery config topic
// for one entity of one device.
//
// Example: homeassistant/sensor/enocean_kitchen_switch_energy/config
func (t Topics) DiscoveryConfig(component, uniqueID string) string {
	return fmt.Sprintf("%s/%s/%s/config", t.discoveryPrefix, component, uniqueID)
}

var nonIdentChars = regexp.MustCompile(`[^a-z0-9]+`)

// UniqueID builds the Home Assistant unique_id for one decoded field of
// one device: "enocean_<device>_<field-shortcut>", lowercased with
// non-alphanumeric runs collapsed to a single underscore.
func UniqueID(deviceName, fieldShortcut string) string {
	raw := "enocean_" + deviceName + "_" + fieldShortcut
	return strings.Trim(nonIdentChars.ReplaceAllString(strings.ToLower(raw), "_"), "_")
}
