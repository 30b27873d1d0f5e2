package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const mappingFileName = "mapping.yaml"

// Store resolves EEP identifiers to entity mappings, preferring a
// user-supplied mapping.yaml over the compiled-in defaults.
type Store struct {
	mu sync.RWMutex

	path   string
	custom map[string]Mapping
}

// NewStore returns a Store that loads overrides from mapping.yaml in
// configDir.
func NewStore(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, mappingFileName)}
}

// Load reads the custom mapping file, if present. A missing file leaves
// the store using only compiled-in defaults.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path) //nolint:gosec // operator-configured path
	if os.IsNotExist(err) {
		s.mu.Lock()
		s.custom = map[string]Mapping{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading mapping file: %w", err)
	}

	raw := map[string]Mapping{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing mapping file: %w", err)
	}

	normalized := make(map[string]Mapping, len(raw))
	for id, m := range raw {
		normalized[strings.ToUpper(id)] = m
	}

	s.mu.Lock()
	s.custom = normalized
	s.mu.Unlock()
	return nil
}

// Save persists a single EEP's custom mapping and registers it
// immediately.
func (s *Store) Save(eepID string, m Mapping) error {
	eepID = strings.ToUpper(eepID)

	s.mu.Lock()
	if s.custom == nil {
		s.custom = map[string]Mapping{}
	}
	s.custom[eepID] = m
	snapshot := make(map[string]Mapping, len(s.custom))
	for id, mp := range s.custom {
		snapshot[id] = mp
	}
	s.mu.Unlock()

	return s.persist(snapshot)
}

// Delete removes a custom mapping override, reverting that EEP ID to its
// compiled-in default (if any).
func (s *Store) Delete(eepID string) error {
	eepID = strings.ToUpper(eepID)

	s.mu.Lock()
	delete(s.custom, eepID)
	snapshot := make(map[string]Mapping, len(s.custom))
	for id, mp := range s.custom {
		snapshot[id] = mp
	}
	s.mu.Unlock()

	return s.persist(snapshot)
}

func (s *Store) persist(all map[string]Mapping) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(all)
	if err != nil {
		return fmt.Errorf("encoding mapping file: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Get resolves the mapping for an EEP ID: a custom override replaces the
// compiled-in default wholesale, and the "common" entries, if any, are
// appended to the result without overriding a per-shortcut key the mapping
// already defines.
func (s *Store) Get(eepID string) Mapping {
	eepID = strings.ToUpper(eepID)

	s.mu.RLock()
	base, hasCustom := s.custom[eepID]
	common, hasCommon := s.custom[commonKey]
	s.mu.RUnlock()

	if !hasCustom {
		base = defaultMappings[eepID]
	}

	if !hasCommon || len(common) == 0 {
		return base
	}

	merged := make(Mapping, len(base)+len(common))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range common {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return merged
}

// All returns every EEP ID with a registered mapping, default or custom,
// excluding the special "common" key.
func (s *Store) All() map[string]Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Mapping, len(defaultMappings)+len(s.custom))
	for id, m := range defaultMappings {
		out[id] = m
	}
	for id, m := range s.custom {
		if id == commonKey {
			continue
		}
		out[id] = m
	}
	return out
}
