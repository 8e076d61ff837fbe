package worldmap

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/submap"
)

// SubmapCoord is an absolute submap-grid coordinate, the key a MapBuffer
// indexes by once a submap leaves the live GameMap window.
type SubmapCoord struct {
	X, Y, Z int
}

// MapBuffer persists submaps beyond the live window a GameMap keeps
// resident, per spec.md §3's "owned... by a map buffer for persistence
// beyond the live window." It is a plain key-value store from absolute
// submap coordinates to at most one submap each, the same shape
// spec.md §4.5 describes for the overmap buffer one level up.
type MapBuffer struct {
	submaps map[SubmapCoord]*submap.Submap
}

// NewMapBuffer creates an empty buffer.
func NewMapBuffer() *MapBuffer {
	return &MapBuffer{submaps: make(map[SubmapCoord]*submap.Submap)}
}

// Store saves sm under the given absolute coordinate, replacing whatever
// was previously stored there.
func (b *MapBuffer) Store(c SubmapCoord, sm *submap.Submap) {
	b.submaps[c] = sm
}

// Load retrieves the submap stored at c, if any.
func (b *MapBuffer) Load(c SubmapCoord) (*submap.Submap, bool) {
	sm, ok := b.submaps[c]
	return sm, ok
}

// Remove deletes any submap stored at c.
func (b *MapBuffer) Remove(c SubmapCoord) {
	delete(b.submaps, c)
}

// Len returns the number of submaps currently buffered.
func (b *MapBuffer) Len() int {
	return len(b.submaps)
}

// Evict moves every non-empty slot out of m into the buffer, keyed by its
// absolute coordinate, and clears the slot — the handoff that happens when
// a GameMap's live window scrolls away from a region.
func (b *MapBuffer) Evict(m *GameMap) {
	for z := 0; z < ZLevels; z++ {
		for y := 0; y < GridSize; y++ {
			for x := 0; x < GridSize; x++ {
				sm, ok := m.Get(x, y, z)
				if !ok {
					continue
				}
				ax, ay, az := m.AbsoluteOf(x, y, z)
				b.Store(SubmapCoord{X: ax, Y: ay, Z: az}, sm)
				_ = m.Clear(x, y, z)
			}
		}
	}
}

// Restore installs every buffered submap whose absolute coordinate falls
// within m's current window back into m, leaving the buffer populated
// (Restore does not evict — callers that want move semantics call Evict
// on the prior window separately).
func (b *MapBuffer) Restore(m *GameMap) error {
	for z := 0; z < ZLevels; z++ {
		for y := 0; y < GridSize; y++ {
			for x := 0; x < GridSize; x++ {
				ax, ay, az := m.AbsoluteOf(x, y, z)
				sm, ok := b.Load(SubmapCoord{X: ax, Y: ay, Z: az})
				if !ok {
					continue
				}
				if err := m.Set(x, y, z, sm); err != nil {
					return fmt.Errorf("worldmap: restore (%d,%d,%d): %w", x, y, z, err)
				}
			}
		}
	}
	return nil
}
