package level

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Digest identifies descriptor content.
type Digest [blake2b.Size256]byte

// Decode parses a YAML descriptor and validates it.
func Decode(raw []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing level descriptor: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads and decodes a descriptor, returning its content digest.
func LoadFile(path string) (*Descriptor, Digest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("reading level %s: %w", path, err)
	}
	d, err := Decode(raw)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("level %s: %w", path, err)
	}
	return d, blake2b.Sum256(raw), nil
}

type cacheEntry struct {
	digest     Digest
	descriptor *Descriptor
}

// Cache remembers decoded descriptors by path and content digest so an
// unchanged file is decoded once.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Load returns the descriptor at path. changed is false when the file
// content matches the previously loaded digest.
func (c *Cache) Load(path string) (d *Descriptor, changed bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading level %s: %w", path, err)
	}
	sum := Digest(blake2b.Sum256(raw))

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok && e.digest == sum {
		return e.descriptor, false, nil
	}

	d, err = Decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("level %s: %w", path, err)
	}
	c.entries[path] = cacheEntry{digest: sum, descriptor: d}
	return d, true, nil
}

// Forget drops the cached entry for path.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
