// Package waveform turns remote audio files into peak buckets for row
// sparklines, fetching and decoding lazily as rows become visible.
package waveform

import (
	"sync"
	"time"
)

// Waveform is the cached render data for one file.
type Waveform struct {
	Peaks    []float64
	Duration time.Duration
}

// Cache stores computed waveforms by server path. Entries are write-once:
// the first writer wins and later Puts are ignored, so concurrent workers
// can never flip a rendered row.
type Cache struct {
	mu   sync.RWMutex
	data map[string]Waveform
}

func NewCache() *Cache {
	return &Cache{data: make(map[string]Waveform)}
}

func (c *Cache) Get(path string) (Waveform, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.data[path]
	return w, ok
}

// Put stores w unless the path is already cached. Returns whether the value
// was stored.
func (c *Cache) Put(path string, w Waveform) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[path]; ok {
		return false
	}
	c.data[path] = w
	return true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
