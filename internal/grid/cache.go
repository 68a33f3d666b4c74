package grid

import (
	"fmt"
	"sync"
)

// Cache provides thread-safe caching of loaded frames keyed by path or name.
//
// Once a grid file is loaded, subsequent Load calls for the same path return
// the cached frame without disk I/O. Frames added with Put (for example,
// grids supplied inline by a client) share the same key space.
//
// # Memory Management
//
// Cached frames remain in memory until removed via Evict or Clear.
type Cache struct {
	mu     sync.RWMutex
	frames map[string]*ScalarData
	loader func(path string) (*ScalarData, error)
}

// NewCache creates an empty cache that loads ESRI ASCII grids from disk.
func NewCache() *Cache {
	return &Cache{
		frames: make(map[string]*ScalarData),
		loader: LoadASCIIGrid,
	}
}

// Load returns the frame for path, reading it from disk on first use.
func (c *Cache) Load(path string) (*ScalarData, error) {
	c.mu.RLock()
	if d, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	d, err := c.loader(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.frames[path] = d
	c.mu.Unlock()

	return d, nil
}

// Get returns a cached frame without loading. It errors for unknown keys.
func (c *Cache) Get(key string) (*ScalarData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.frames[key]
	if !ok {
		return nil, fmt.Errorf("grid %q not loaded", key)
	}
	return d, nil
}

// Put stores a frame under key, replacing any previous entry.
func (c *Cache) Put(key string, d *ScalarData) {
	c.mu.Lock()
	c.frames[key] = d
	c.mu.Unlock()
}

// Evict removes one frame. Unknown keys are ignored.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	delete(c.frames, key)
	c.mu.Unlock()
}

// Clear removes all frames.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]*ScalarData)
	c.mu.Unlock()
}
