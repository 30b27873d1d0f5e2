package eep

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// customDocument is the YAML shape of a single custom profile override
// file under the custom_eep directory.
type customDocument struct {
	Profile customProfileYAML `yaml:"profile"`
}

type customProfileYAML struct {
	RORG        string                   `yaml:"rorg"`
	Func        string                   `yaml:"func"`
	Type        string                   `yaml:"type"`
	Description string                   `yaml:"description"`
	Fields      []map[string]interface{} `yaml:"fields"`
}

// loadCustomProfiles reads every *.yaml/*.yml file in dir and returns the
// profiles they describe, keyed by EEP ID.
func loadCustomProfiles(dir string) (map[string]Profile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading custom EEP directory: %w", err)
	}

	profiles := make(map[string]Profile)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}

		profile, err := loadCustomProfileFile(filepath.Join(dir, name))
		if err != nil {
			continue // one malformed override shouldn't block the rest
		}
		profiles[profile.ID()] = profile
	}
	return profiles, nil
}

func loadCustomProfileFile(path string) (Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is within the operator-configured custom_eep dir
	if err != nil {
		return Profile{}, err
	}

	var doc customDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Profile{}, err
	}

	p := doc.Profile
	profile := Profile{
		RORG:        formatHexComponent(p.RORG, 2),
		Func:        formatHexComponent(p.Func, 2),
		Type:        formatHexComponent(p.Type, 2),
		Description: p.Description,
		IsCustom:    true,
	}
	for _, raw := range p.Fields {
		profile.Fields = append(profile.Fields, fieldFromYAML(raw))
	}
	return profile, nil
}

func fieldFromYAML(raw map[string]interface{}) FieldDescriptor {
	fd := FieldDescriptor{
		Shortcut:    stringValue(raw["shortcut"]),
		Description: stringValue(raw["description"]),
		Offset:      intValue(raw["offset"]),
		Size:        intValue(raw["size"]),
		Kind:        FieldKind(stringValue(raw["type"])),
		Unit:        stringValue(raw["unit"]),
	}

	if rawRange, ok := raw["range"].(map[string]interface{}); ok {
		fd.RawRange = Range{Min: floatValue(rawRange["min"]), Max: floatValue(rawRange["max"])}
	}
	if scale, ok := raw["scale"].(map[string]interface{}); ok {
		fd.Scale = Range{Min: floatValue(scale["min"]), Max: floatValue(scale["max"])}
	}
	if v, ok := raw["min"]; ok {
		fd.RawRange.Min = floatValue(v)
	}
	if v, ok := raw["max"]; ok {
		fd.RawRange.Max = floatValue(v)
	}
	if v, ok := raw["scale_min"]; ok {
		fd.Scale.Min = floatValue(v)
	}
	if v, ok := raw["scale_max"]; ok {
		fd.Scale.Max = floatValue(v)
	}
	if items, ok := raw["values"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			fd.Values = append(fd.Values, EnumValue{Value: intValue(m["value"]), Description: stringValue(m["description"])})
		}
	}
	return fd
}

// saveCustomProfile writes profile as a YAML override file named after its
// EEP ID, overwriting any previous version.
func saveCustomProfile(dir string, profile Profile) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating custom EEP directory: %w", err)
	}

	doc := customDocument{Profile: customProfileYAML{
		RORG:        profile.RORG,
		Func:        profile.Func,
		Type:        profile.Type,
		Description: profile.Description,
	}}
	for _, fd := range profile.Fields {
		field := map[string]interface{}{
			"shortcut": fd.Shortcut, "description": fd.Description,
			"offset": fd.Offset, "size": fd.Size, "type": string(fd.Kind), "unit": fd.Unit,
		}
		if fd.Kind == FieldValue {
			field["min"], field["max"] = fd.RawRange.Min, fd.RawRange.Max
			field["scale_min"], field["scale_max"] = fd.Scale.Min, fd.Scale.Max
		}
		if len(fd.Values) > 0 {
			values := make([]map[string]interface{}, 0, len(fd.Values))
			for _, v := range fd.Values {
				values = append(values, map[string]interface{}{"value": v.Value, "description": v.Description})
			}
			field["values"] = values
		}
		doc.Profile.Fields = append(doc.Profile.Fields, field)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding custom profile: %w", err)
	}

	path := filepath.Join(dir, profile.ID()+".yaml")
	return os.WriteFile(path, data, 0o600)
}

func deleteCustomProfile(dir, eepID string) error {
	path := filepath.Join(dir, eepID+".yaml")
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

func floatValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}
