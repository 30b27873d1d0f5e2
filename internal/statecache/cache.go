package statecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "last_states.json"

// State is a device's published state snapshot: free-form decoded fields
// plus the bookkeeping keys this package manages.
type State map[string]any

const (
	lastUpdateKey = "_last_update"
	restoredKey   = "_restored"
)

// Cache persists and restores per-device state snapshots.
type Cache struct {
	mu sync.Mutex

	path    string
	enabled bool
	states  map[string]State
}

// New returns a Cache that persists to last_states.json under dir. When
// enabled is false, Put still returns the timestamped snapshot for
// publishing but never touches disk.
func New(dir string, enabled bool) *Cache {
	return &Cache{
		path:    filepath.Join(dir, stateFileName),
		enabled: enabled,
		states:  map[string]State{},
	}
}

// Put stamps state with the current time, persists it (if caching is
// enabled), and returns the stamped snapshot for the caller to publish.
// Persistence happens before this method returns, so a crash never leaves
// a retained publish without a matching on-disk snapshot.
func (c *Cache) Put(deviceName string, state State) (State, error) {
	stamped := make(State, len(state)+1)
	for k, v := range state {
		stamped[k] = v
	}
	stamped[lastUpdateKey] = time.Now().Format(time.RFC3339)

	if !c.enabled {
		return stamped, nil
	}

	c.mu.Lock()
	c.states[deviceName] = stamped
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.persist(snapshot); err != nil {
		return stamped, err
	}
	return stamped, nil
}

// Get returns the last known state for deviceName, if any.
func (c *Cache) Get(deviceName string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[deviceName]
	return s, ok
}

// Load reads the persisted snapshot file into memory, without marking
// anything as restored. Call LoadForRestore instead when the intent is to
// republish on startup.
func (c *Cache) Load() error {
	data, err := os.ReadFile(c.path) //nolint:gosec // operator-configured path
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading state cache: %w", err)
	}

	states := map[string]State{}
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("parsing state cache: %w", err)
	}

	c.mu.Lock()
	c.states = states
	c.mu.Unlock()
	return nil
}

// LoadForRestore loads the persisted states and returns a copy of each,
// marked with "_restored": true, for the caller to republish retained. The
// original "_last_update" timestamp is preserved unchanged.
func (c *Cache) LoadForRestore() (map[string]State, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]State, len(c.states))
	for name, s := range c.states {
		restored := make(State, len(s)+1)
		for k, v := range s {
			restored[k] = v
		}
		restored[restoredKey] = true
		out[name] = restored
	}
	return out, nil
}

func (c *Cache) snapshotLocked() map[string]State {
	snapshot := make(map[string]State, len(c.states))
	for name, s := range c.states {
		snapshot[name] = s
	}
	return snapshot
}

func (c *Cache) persist(states map[string]State) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating state cache directory: %w", err)
	}

	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state cache: %w", err)
	}

	return os.WriteFile(c.path, data, 0o600)
}
