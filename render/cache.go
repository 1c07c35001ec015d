package render

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/cadl/model"
	"github.com/ardnew/cadl/value"
)

// Cache stores rendered geometry keyed by subtree content hash. It is
// safe for concurrent use.
type Cache struct {
	mutex   sync.RWMutex
	entries map[uint64]Geometry
	hits    uint64
	misses  uint64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]Geometry)}
}

// Get returns the cached geometry for key, counting the hit or miss.
func (c *Cache) Get(key uint64) (Geometry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	g, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}

	return g, ok
}

// Put stores geometry under key.
func (c *Cache) Put(key uint64, g Geometry) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = g
}

// Stats returns hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.hits, c.misses
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// hashModel computes the content hash of a model subtree at a
// resolution. Two subtrees hash equal exactly when they render
// identically: same origin, same arguments, same transform, same
// resolution, same children.
func hashModel(m *model.Model, resolution int) uint64 {
	h := xxh3.New()

	var buf [8]byte

	writeInt := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}

	writeStr := func(s string) {
		writeInt(uint64(len(s)))
		_, _ = h.WriteString(s)
	}

	writeInt(uint64(m.Origin.Kind))
	writeInt(uint64(resolution))
	writeStr(m.Origin.Primitive)
	writeStr(m.Origin.Operation)

	if m.Origin.Symbol != nil {
		writeStr(m.Origin.Symbol.FullName())
	}

	if m.Origin.Args != nil {
		writeStr(value.Value{
			Kind:  value.KindTuple,
			Tuple: m.Origin.Args,
		}.String())
	}

	if m.Origin.Matrix != nil {
		writeInt(uint64(m.Origin.Matrix.Dim))

		for _, v := range m.Origin.Matrix.A {
			writeInt(math.Float64bits(v))
		}
	}

	writeInt(uint64(len(m.Children)))

	for _, child := range m.Children {
		res := resolution
		if child.Resolution > 0 {
			res = child.Resolution
		}

		writeInt(hashModel(child, res))
	}

	return h.Sum64()
}
