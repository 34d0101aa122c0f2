package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
)

// Manifest maps logical asset names to store keys. Applications reference
// assets by stable names ("icons/close.svg") while the store holds
// fingerprinted or relocated keys; the manifest bridges the two.
//
//	{
//	  "icons/close.svg": "icons/close.a1b2c3d4.svg",
//	  "fonts/inter.ttf": "fonts/inter.e5f6g7h8.ttf"
//	}
//
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest. An empty manifest resolves every
// name to itself.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// LoadManifest reads a JSON manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, lumenerrors.New("E101").
			WithDetail(fmt.Sprintf("Could not parse %s.", path)).
			Wrap(err)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the store key for a logical name. Unknown names pass
// through unchanged.
func (m *Manifest) Resolve(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if key, ok := m.entries[name]; ok {
		return key
	}
	return name
}

// Has reports whether the manifest maps the given name.
func (m *Manifest) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[name]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(name, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = key
}

// Len returns the entry count.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns a copy of the entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for name, key := range m.entries {
		out[name] = key
	}
	return out
}
