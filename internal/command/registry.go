package command

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/esp3"
)

// PayloadBuilder turns a symbolic command name and its string value into
// the rorg and payload bytes of an outbound radio telegram. value is empty
// for commands that take none (e.g. a bare "on"/"off").
type PayloadBuilder func(cmd, value string) (rorg byte, payload []byte, err error)

// Registry resolves an EEP ID to the PayloadBuilder that knows how to
// encode commands for it.
//
// Thread Safety: all methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]PayloadBuilder
}

// NewRegistry returns a Registry seeded with the builders for the two
// controllable entries of the compiled-in default mapping table
// (D2-01-0F switches, D2-05-00 covers). Callers register additional
// builders for any other bidirectional EEP via Register.
func NewRegistry() *Registry {
	r := &Registry{builders: map[string]PayloadBuilder{}}
	r.Register("D2-01-0F", buildSwitchCommand)
	r.Register("D2-05-00", buildCoverCommand)
	return r
}

// Register installs (or replaces) the payload builder for an EEP ID.
func (r *Registry) Register(eepID string, builder PayloadBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[strings.ToUpper(eepID)] = builder
}

// Encode builds a complete RADIO_ERP1 frame for cmd/value directed at dev.
// dev must carry a sender_id (this gateway's own address for that
// bidirectional device); the frame's destination is dev's own address.
func (r *Registry) Encode(dev *device.Device, cmd, value string) (esp3.Frame, error) {
	if strings.TrimSpace(dev.SenderID) == "" {
		return esp3.Frame{}, fmt.Errorf("%w: %q", ErrNoSenderID, dev.Name)
	}

	r.mu.RLock()
	builder, ok := r.builders[strings.ToUpper(dev.EEPID())]
	r.mu.RUnlock()
	if !ok {
		return esp3.Frame{}, fmt.Errorf("%w: %s", ErrNoBuilder, dev.EEPID())
	}

	rorg, payload, err := builder(cmd, value)
	if err != nil {
		return esp3.Frame{}, err
	}

	senderID, err := parseAddress(dev.SenderID)
	if err != nil {
		return esp3.Frame{}, fmt.Errorf("%w: sender_id %q: %w", ErrInvalidAddress, dev.SenderID, err)
	}
	destination, err := parseAddress(dev.Address)
	if err != nil {
		return esp3.Frame{}, fmt.Errorf("%w: address %q: %w", ErrInvalidAddress, dev.Address, err)
	}

	data, optional := esp3.EncodeRadioTelegram(rorg, payload, senderID, destination)
	return esp3.Frame{PacketType: esp3.PacketTypeRadioERP1, Data: data, Optional: optional}, nil
}

// parseAddress parses a "0xAABBCCDD"-style (or bare hex) address string
// into a uint32.
func parseAddress(addr string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(addr), "0x")
	trimmed = strings.TrimPrefix(trimmed, "0X")
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// buildSwitchCommand encodes an on/off command for D2-01-0F (Electronic
// Switch). Byte 0 carries the command ID (0x01 = "switching command") and
// channel; byte 3 carries the output value, 0 or 100%.
func buildSwitchCommand(cmd, _ string) (byte, []byte, error) {
	const (
		cmdID       = 0x01 // switching command
		channel     = 0x00 // single-channel actuator
		outputOff   = 0x00
		outputOn    = 0x64 // 100%
	)

	var output byte
	switch strings.ToLower(cmd) {
	case "on":
		output = outputOn
	case "off":
		output = outputOff
	default:
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	payload := []byte{cmdID<<5 | channel, 0x00, 0x00, output}
	return 0xD2, payload, nil
}

// buildCoverCommand encodes position/open/close commands for D2-05-00
// (Blinds Control). Byte 0 carries the target position, 0 (closed) to
// 100 (open).
func buildCoverCommand(cmd, value string) (byte, []byte, error) {
	var position int
	switch strings.ToLower(cmd) {
	case "open":
		position = 100
	case "close":
		position = 0
	case "position":
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, nil, fmt.Errorf("%w: position %q: %w", ErrInvalidValue, value, err)
		}
		if v < 0 || v > 100 {
			return 0, nil, fmt.Errorf("%w: position %d out of range 0..100", ErrInvalidValue, v)
		}
		position = v
	default:
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	payload := []byte{byte(position), 0x00, 0x00, 0x00}
	return 0xD2, payload, nil
}
