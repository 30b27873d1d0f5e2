package device

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry is the in-memory, address-indexed view of the device store. It
// is populated from disk on Load and keeps the persisted files in sync with
// every mutation.
type Registry struct {
	mu sync.RWMutex

	dir       string
	byName    map[string]*Device
	byAddress map[string]*Device // keyed by normalizeAddress(d.Address)
}

// NewRegistry builds an empty registry rooted at dir. Call Load to
// populate it from disk.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:       dir,
		byName:    map[string]*Device{},
		byAddress: map[string]*Device{},
	}
}

func (r *Registry) jsonPath() string   { return filepath.Join(r.dir, devicesFileName) }
func (r *Registry) legacyPath() string { return filepath.Join(r.dir, legacyFileName) }

// Load populates the registry from the JSON store, falling back to the
// legacy INI store when no JSON store exists yet. A legacy load is
// immediately migrated: the devices are re-saved as JSON so that
// subsequent starts use the JSON store exclusively.
func (r *Registry) Load() error {
	devices, err := loadJSON(r.jsonPath())
	if err != nil {
		return err
	}

	migrated := false
	if len(devices) == 0 {
		legacy, err := loadLegacyINI(r.legacyPath())
		if err != nil {
			return err
		}
		if len(legacy) > 0 {
			devices = legacy
			migrated = true
		}
	}

	byName := make(map[string]*Device, len(devices))
	byAddress := make(map[string]*Device, len(devices))
	for name, d := range devices {
		d.Name = name
		key := normalizeAddress(d.Address)
		if existing, ok := byAddress[key]; ok {
			return fmt.Errorf("%w: %q and %q both use %s", ErrDuplicateAddress, existing.Name, name, d.Address)
		}
		byName[name] = d
		byAddress[key] = d
	}

	r.mu.Lock()
	r.byName = byName
	r.byAddress = byAddress
	r.mu.Unlock()

	if migrated {
		return r.persist()
	}
	return nil
}

// persist takes r.mu's read lock only while copying a snapshot and writes
// the files without it; callers must not hold r.mu when calling it.
func (r *Registry) persist() error {
	r.mu.RLock()
	snapshot := make(map[string]*Device, len(r.byName))
	for name, d := range r.byName {
		snapshot[name] = d.DeepCopy()
	}
	r.mu.RUnlock()

	if err := saveJSON(r.jsonPath(), snapshot); err != nil {
		return err
	}
	return saveLegacyINI(r.legacyPath(), snapshot)
}

// Get returns a copy of the device registered under name.
func (r *Registry) Get(name string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d.DeepCopy(), nil
}

// GetByAddress looks up a device by its sender address, normalising both
// sides (strip "0x", uppercase, re-prepend "0x") before comparing.
func (r *Registry) GetByAddress(address string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byAddress[normalizeAddress(address)]
	if !ok {
		return nil, fmt.Errorf("%w: address %s", ErrNotFound, address)
	}
	return d.DeepCopy(), nil
}

// List returns a copy of every registered device, sorted by name.
func (r *Registry) List() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Device, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Add registers a new device. It fails if the name is empty, the name is
// already taken, or the address collides with an existing device.
func (r *Registry) Add(d *Device) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(d.Address) == "" {
		return ErrInvalidAddress
	}

	r.mu.Lock()
	if _, exists := r.byName[d.Name]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrExists, d.Name)
	}

	key := normalizeAddress(d.Address)
	if existing, exists := r.byAddress[key]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s already registered to %q", ErrDuplicateAddress, d.Address, existing.Name)
	}

	cpy := d.DeepCopy()
	r.byName[d.Name] = cpy
	r.byAddress[key] = cpy
	r.mu.Unlock()

	if err := r.persist(); err != nil {
		r.mu.Lock()
		delete(r.byName, d.Name)
		delete(r.byAddress, key)
		r.mu.Unlock()
		return err
	}
	return nil
}

// Update replaces the stored device for name, re-validating the address
// collision check against every other device.
func (r *Registry) Update(name string, d *Device) error {
	r.mu.Lock()
	old, exists := r.byName[name]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	newKey := normalizeAddress(d.Address)
	oldKey := normalizeAddress(old.Address)
	if existing, collides := r.byAddress[newKey]; collides && newKey != oldKey && existing.Name != name {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s already registered to %q", ErrDuplicateAddress, d.Address, existing.Name)
	}

	d.Name = name
	cpy := d.DeepCopy()
	r.byName[name] = cpy
	if newKey != oldKey {
		delete(r.byAddress, oldKey)
	}
	r.byAddress[newKey] = cpy
	r.mu.Unlock()

	return r.persist()
}

// Delete removes a device by name.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	d, exists := r.byName[name]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(r.byName, name)
	delete(r.byAddress, normalizeAddress(d.Address))
	r.mu.Unlock()

	return r.persist()
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
