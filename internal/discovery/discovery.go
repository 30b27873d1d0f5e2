package discovery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/infrastructure/mqtt"
	"github.com/enoceanmqtt/core/internal/mapping"
)

// viaDevice is the identifier of the synthetic "gateway" device every
// learned device's discovery payload links back to via via_device.
const viaDevice = "enocean_gateway"

// controllableComponents get a command_topic; everything else is
// receive-only from Home Assistant's perspective.
var controllableComponents = map[string]bool{
	"switch":  true,
	"light":   true,
	"cover":   true,
	"climate": true,
	"fan":     true,
}

// haDevice is the nested "device" block every discovery payload carries,
// grouping all of one physical device's entities under one HA device card.
type haDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	ViaDevice    string   `json:"via_device"`
}

// availabilityRef points a discovery payload at the gateway's own
// availability topic.
type availabilityRef struct {
	Topic string `json:"topic"`
}

// payload is the JSON body published to a discovery config topic. Field
// presence (not just value) matters to Home Assistant, so optional fields
// use omitempty and are left zero rather than populated with placeholders.
type payload struct {
	Name              string            `json:"name"`
	UniqueID          string            `json:"unique_id"`
	ObjectID          string            `json:"object_id"`
	StateTopic        string            `json:"state_topic"`
	ValueTemplate     string            `json:"value_template"`
	DeviceClass       string            `json:"device_class,omitempty"`
	UnitOfMeasurement string            `json:"unit_of_measurement,omitempty"`
	Icon              string            `json:"icon,omitempty"`
	CommandTopic      string            `json:"command_topic,omitempty"`

	BrightnessStateTopic    string `json:"brightness_state_topic,omitempty"`
	BrightnessCommandTopic  string `json:"brightness_command_topic,omitempty"`
	BrightnessValueTemplate string `json:"brightness_value_template,omitempty"`
	BrightnessScale         int    `json:"brightness_scale,omitempty"`

	PositionTopic    string `json:"position_topic,omitempty"`
	PositionTemplate string `json:"position_template,omitempty"`
	SetPositionTopic string `json:"set_position_topic,omitempty"`

	Availability []availabilityRef `json:"availability"`
	Device       haDevice          `json:"device"`
}

// Entry is one discovery publish: the config topic and its JSON body.
type Entry struct {
	Topic   string
	Payload []byte
}

// Build returns one discovery Entry per (shortcut, entity) pair in m, for
// dev's effective mapping, addressed through topics.
func Build(dev *device.Device, m mapping.Mapping, topics mqtt.Topics) []Entry {
	entries := make([]Entry, 0, len(m))
	for shortcut, entity := range m {
		entries = append(entries, buildEntry(dev, shortcut, entity, topics))
	}
	return entries
}

// BuildRemoval returns the discovery Entry that, published retained,
// removes the Home Assistant entity for (component, uniqueID): an empty
// payload to its config topic.
func BuildRemoval(component, uniqueID string, topics mqtt.Topics) Entry {
	return Entry{Topic: topics.DiscoveryConfig(component, uniqueID), Payload: nil}
}

func buildEntry(dev *device.Device, shortcut string, entity mapping.Entity, topics mqtt.Topics) Entry {
	uniqueID := mqtt.UniqueID(dev.Name, shortcut)

	p := payload{
		Name:              entityName(dev, entity),
		UniqueID:          uniqueID,
		ObjectID:          uniqueID,
		StateTopic:        topics.DeviceState(dev.Name),
		ValueTemplate:     valueTemplate(entity, shortcut),
		DeviceClass:       entity.DeviceClass,
		UnitOfMeasurement: entity.UnitOfMeasurement,
		Icon:              entity.Icon,
		Availability:      []availabilityRef{{Topic: topics.Status()}},
		Device: haDevice{
			Identifiers:  []string{"enocean_" + addressSlug(dev.Address)},
			Name:         dev.Name,
			Manufacturer: dev.Manufacturer,
			Model:        dev.EEPID(),
			ViaDevice:    viaDevice,
		},
	}

	component := strings.ToLower(entity.Component)
	if controllableComponents[component] {
		p.CommandTopic = topics.DeviceSet(dev.Name)
	}
	if component == "light" && entity.Brightness {
		p.BrightnessStateTopic = topics.DeviceState(dev.Name)
		p.BrightnessCommandTopic = topics.DeviceBrightnessSet(dev.Name)
		p.BrightnessValueTemplate = fmt.Sprintf("{{ value_json.%s }}", shortcut)
		p.BrightnessScale = 100
	}
	if component == "cover" {
		p.PositionTopic = topics.DeviceState(dev.Name)
		p.PositionTemplate = fmt.Sprintf("{{ value_json.%s }}", shortcut)
		p.SetPositionTopic = topics.DevicePositionSet(dev.Name)
	}

	data, err := json.Marshal(p)
	if err != nil {
		// payload is a plain struct of strings/slices; Marshal cannot
		// fail on it, but a nil body is a safer default than a panic.
		data = nil
	}

	return Entry{Topic: topics.DiscoveryConfig(component, uniqueID), Payload: data}
}

func entityName(dev *device.Device, entity mapping.Entity) string {
	if entity.Name == "" {
		return dev.Name
	}
	return dev.Name + " " + entity.Name
}

func valueTemplate(entity mapping.Entity, shortcut string) string {
	if entity.ValueTemplate != "" {
		return entity.ValueTemplate
	}
	return fmt.Sprintf("{{ value_json.%s }}", shortcut)
}

// addressSlug lowercases a device address and strips its "0x" prefix, for
// use in Home Assistant device identifiers.
func addressSlug(address string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	return strings.ToLower(trimmed)
}
