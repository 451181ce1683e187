package web

import (
	"encoding/binary"
	"sync"
)

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of encoded frames, keyed by their hash.
// Clients keep a mirror of it, so a repeated frame is sent as an index.
type cache struct {
	sync.Mutex
	entries []cacheEntry
	idx     int
}

func newCache(size int) *cache {
	return &cache{entries: make([]cacheEntry, size)}
}

// add stores data over the oldest entry and returns its index.
func (c *cache) add(hash uint64, data []byte) int {
	i := c.idx
	c.entries[i] = cacheEntry{hash: hash, data: data}
	c.idx = (c.idx + 1) % len(c.entries)
	return i
}

// index returns the position of hash, or -1.
func (c *cache) index(hash uint64) int {
	for i, e := range c.entries {
		if e.data != nil && e.hash == hash {
			return i
		}
	}
	return -1
}

// sync encodes every filled entry as a 4 byte length, a 2 byte index
// and the data, numbers little endian.
func (c *cache) sync() []byte {
	var data []byte
	for i, e := range c.entries {
		if len(e.data) == 0 {
			continue
		}
		data = binary.LittleEndian.AppendUint32(data, uint32(len(e.data)))
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
		data = append(data, e.data...)
	}
	return data
}
