package texture

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/golang/glog"
)

// Resolver resolves a background name to a decoded image, or nil.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe background cache shared by render workers.
// Failed loads are remembered so a missing file is reported once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
}

// NewCache creates a cache backed by index. A nil index resolves only
// names that are existing file paths.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
	}
}

// Resolve loads and caches a background by index name or file path.
func (c *Cache) Resolve(name string) *image.NRGBA {
	if name == "" {
		return nil
	}
	path, ok := c.index.ResolvePath(name)
	if !ok {
		path = name
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	var err error
	if !ok {
		if _, err = os.Stat(path); err != nil {
			err = fmt.Errorf("texture: background %q not found", name)
		}
	}
	if err == nil {
		img, err = Load(path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	if err != nil {
		glog.Warningf("%v", err)
	}
	c.items[path] = img
	return img
}
