package mapping

// Entity describes how one decoded field shortcut becomes a Home
// Assistant MQTT entity.
type Entity struct {
	Component          string `yaml:"component" json:"component"`
	Name               string `yaml:"name" json:"name"`
	DeviceClass        string `yaml:"device_class,omitempty" json:"device_class,omitempty"`
	UnitOfMeasurement  string `yaml:"unit_of_measurement,omitempty" json:"unit_of_measurement,omitempty"`
	Icon               string `yaml:"icon,omitempty" json:"icon,omitempty"`
	ValueTemplate      string `yaml:"value_template,omitempty" json:"value_template,omitempty"`
	Brightness         bool   `yaml:"brightness,omitempty" json:"brightness,omitempty"`
}

// Mapping is the full set of entities for one EEP, keyed by field
// shortcut.
type Mapping map[string]Entity

// commonKey is the mapping file's special key whose entries are appended
// to every device's discovery set. Load uppercases every top-level (EEP ID)
// key before storing it, so the lookup key must already be uppercase.
const commonKey = "COMMON"
