package eep

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// minimalProfiles is the built-in fallback catalog used when no EEP.xml
// can be found anywhere: a small set of profiles covering the most common
// sensor and actuator families, with no field decoding.
var minimalProfiles = []struct {
	rorg, fn, typ, description string
}{
	{"A5", "02", "05", "Temperature Sensor 0C to +40C"},
	{"A5", "04", "01", "Temperature and Humidity Sensor"},
	{"A5", "07", "01", "Occupancy Sensor"},
	{"A5", "30", "03", "Digital Input (4 channels)"},
	{"D5", "00", "01", "Single Input Contact"},
	{"F6", "02", "01", "Rocker Switch, 2 Rockers"},
	{"D2", "01", "0F", "Electronic Switch"},
	{"D2", "05", "00", "Blinds Control"},
}

// Store is the gateway's EEP profile catalog, keyed by EEP ID ("A5-02-05").
type Store struct {
	mu sync.RWMutex

	configDir string
	bundled   string
	profiles  map[string]Profile
}

// NewStore returns a Store that will look for a user EEP.xml and custom
// overrides under configDir, falling back to the bundled EEP.xml at
// bundledPath when no user override exists.
func NewStore(configDir, bundledPath string) *Store {
	return &Store{
		configDir: configDir,
		bundled:   bundledPath,
		profiles:  map[string]Profile{},
	}
}

func (s *Store) customDir() string {
	return filepath.Join(s.configDir, "custom_eep")
}

// Load populates the store: a user-supplied EEP.xml in the config
// directory takes precedence over the bundled one; if neither is present,
// the minimal built-in catalog is used. Custom YAML overrides are then
// layered on top regardless of which base catalog was loaded.
func (s *Store) Load() error {
	base, err := s.loadBase()
	if err != nil {
		return err
	}

	custom, err := loadCustomProfiles(s.customDir())
	if err != nil {
		return err
	}
	for id, p := range custom {
		base[id] = p
	}

	s.mu.Lock()
	s.profiles = base
	s.mu.Unlock()
	return nil
}

func (s *Store) loadBase() (map[string]Profile, error) {
	userPath := filepath.Join(s.configDir, "EEP.xml")

	for _, path := range []string{userPath, s.bundled} {
		data, err := os.ReadFile(path) //nolint:gosec // operator-configured paths
		if err != nil {
			continue
		}
		profiles, err := parseEEPXML(data)
		if err != nil {
			continue
		}
		return profiles, nil
	}

	profiles := make(map[string]Profile, len(minimalProfiles))
	for _, m := range minimalProfiles {
		p := Profile{RORG: m.rorg, Func: m.fn, Type: m.typ, Description: m.description}
		profiles[p.ID()] = p
	}
	return profiles, nil
}

// Get returns the profile with the given EEP ID, e.g. "A5-02-05".
func (s *Store) Get(eepID string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[strings.ToUpper(eepID)]
	return p, ok
}

// GetByComponents looks up a profile by its RORG/FUNC/TYPE components.
func (s *Store) GetByComponents(rorg, fn, typ string) (Profile, bool) {
	id := formatHexComponent(rorg, 2) + "-" + formatHexComponent(fn, 2) + "-" + formatHexComponent(typ, 2)
	return s.Get(id)
}

// Search returns every profile whose ID or description contains query,
// case-insensitively.
func (s *Store) Search(query string) []Profile {
	query = strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Profile
	for _, p := range s.profiles {
		if strings.Contains(strings.ToLower(p.ID()), query) || strings.Contains(strings.ToLower(p.Description), query) {
			out = append(out, p)
		}
	}
	return out
}

// All returns every loaded profile.
func (s *Store) All() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out
}

// ByRORG returns every profile for the given RORG.
func (s *Store) ByRORG(rorg string) []Profile {
	rorg = formatHexComponent(rorg, 2)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Profile
	for _, p := range s.profiles {
		if p.RORG == rorg {
			out = append(out, p)
		}
	}
	return out
}

// SaveCustom persists profile as a custom_eep YAML override and registers
// it in the store immediately.
func (s *Store) SaveCustom(profile Profile) error {
	profile.IsCustom = true
	if err := saveCustomProfile(s.customDir(), profile); err != nil {
		return err
	}

	s.mu.Lock()
	s.profiles[profile.ID()] = profile
	s.mu.Unlock()
	return nil
}

// DeleteCustom removes a custom override by EEP ID. It is a no-op if the
// profile isn't a custom override.
func (s *Store) DeleteCustom(eepID string) error {
	eepID = strings.ToUpper(eepID)

	s.mu.Lock()
	p, ok := s.profiles[eepID]
	if !ok || !p.IsCustom {
		s.mu.Unlock()
		return nil
	}
	delete(s.profiles, eepID)
	s.mu.Unlock()

	return deleteCustomProfile(s.customDir(), eepID)
}

// Count returns the number of loaded profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
