package tiles

import (
	"image"
	"log"
	"sync"
)

// Key identifies one raster tile in the pyramid.
type Key struct {
	Source int // level source id
	X, Y   int // tile indices
}

type entryState int

const (
	statePending entryState = iota
	stateReady
	stateAbsent
)

type entry struct {
	state entryState
	img   image.Image
}

// Cache is an asynchronous, deduplicating tile cache. Get never blocks:
// it returns the image when resolved, nil otherwise, and issues at most
// one load per key as a side effect. A failed load is recorded as
// permanently absent for the session. Completed loads invoke the notify
// callback so the canvas can request a redraw.
type Cache struct {
	mu      sync.Mutex
	source  Source
	entries map[Key]*entry
	notify  func()
}

// NewCache creates a cache over the given source. notify may be nil.
func NewCache(source Source, notify func()) *Cache {
	return &Cache{
		source:  source,
		entries: make(map[Key]*entry),
		notify:  notify,
	}
}

// Get returns the tile image for key, or nil when the tile is still
// loading or known absent. The first call for a key starts its load.
func (c *Cache) Get(key Key) image.Image {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		img := e.img
		c.mu.Unlock()
		return img
	}
	c.entries[key] = &entry{state: statePending}
	c.mu.Unlock()

	go c.load(key)
	return nil
}

func (c *Cache) load(key Key) {
	img, err := c.source.Fetch(key.Source, key.X, key.Y)

	c.mu.Lock()
	e := c.entries[key]
	if err != nil {
		e.state = stateAbsent
		c.mu.Unlock()
		if err != ErrTileNotFound {
			log.Printf("tile %d/%d_%d: %v", key.Source, key.X, key.Y, err)
		}
		return
	}
	e.state = stateReady
	e.img = img
	c.mu.Unlock()

	if c.notify != nil {
		c.notify()
	}
}

// Counts returns how many cache entries are ready, absent, and pending.
func (c *Cache) Counts() (ready, absent, pending int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		switch e.state {
		case stateReady:
			ready++
		case stateAbsent:
			absent++
		default:
			pending++
		}
	}
	return
}
