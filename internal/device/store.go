package device

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	devicesFileName    = "devices.json"
	legacyFileName     = "enoceanmqtt.devices"
	dirPermissions     = 0o750
	filePermissions    = 0o600
	legacyConfigHeader = "CONFIG" // skipped on import, matches the addon's own INI layout
)

// normalizeAddress strips a leading "0x", uppercases the remainder, and
// re-prepends "0x" so that two differently-cased or differently-prefixed
// spellings of the same address compare equal.
func normalizeAddress(addr string) string {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(addr)), "0X")
	return "0x" + trimmed
}

// loadJSON reads the JSON device store. A missing file is not an error; it
// returns an empty map.
func loadJSON(path string) (map[string]*Device, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-configured
	if os.IsNotExist(err) {
		return map[string]*Device{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading device store: %w", err)
	}

	raw := map[string]*Device{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing device store: %w", err)
	}
	for name, d := range raw {
		d.Name = name
	}
	return raw, nil
}

// saveJSON writes the device store as JSON, keyed by name.
func saveJSON(path string, devices map[string]*Device) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating device store directory: %w", err)
	}

	data, err := json.MarshalIndent(devices, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding device store: %w", err)
	}

	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("writing device store: %w", err)
	}
	return nil
}

// saveLegacyINI writes the devices in the legacy section-per-device INI
// format, kept for compatibility with the addon's original INI consumer.
func saveLegacyINI(path string, devices map[string]*Device) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating device store directory: %w", err)
	}

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		d := devices[name]
		fmt.Fprintf(&b, "[%s]\n", name)
		fmt.Fprintf(&b, "address = %s\n", d.Address)
		fmt.Fprintf(&b, "rorg = 0x%s\n", d.RORG)
		fmt.Fprintf(&b, "func = 0x%s\n", d.Func)
		fmt.Fprintf(&b, "type = 0x%s\n", d.Type)
		if d.SenderID != "" {
			fmt.Fprintf(&b, "sender_id = %s\n", d.SenderID)
		}
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), filePermissions)
}

// loadLegacyINI parses the legacy INI device file. Sections are devices by
// name; the "CONFIG" section, if present, is skipped rather than imported
// as a device.
func loadLegacyINI(path string) (map[string]*Device, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator-configured
	if os.IsNotExist(err) {
		return map[string]*Device{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening legacy device store: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	devices := map[string]*Device{}
	var current *Device
	var currentName string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentName = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			if currentName == legacyConfigHeader {
				current = nil
				continue
			}
			current = &Device{Name: currentName}
			devices[currentName] = current
			continue
		}

		if current == nil {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "address":
			current.Address = value
		case "rorg":
			current.RORG = formatLegacyHex(value)
		case "func":
			current.Func = formatLegacyHex(value)
		case "type":
			current.Type = formatLegacyHex(value)
		case "sender_id":
			current.SenderID = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading legacy device store: %w", err)
	}
	return devices, nil
}

// formatLegacyHex normalises a legacy "0xA5" or "A5" value to "A5".
func formatLegacyHex(value string) string {
	return strings.ToUpper(strings.TrimPrefix(value, "0x"))
}
