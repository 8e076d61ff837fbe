// Package worldmap implements the live game-map grid: the 11x11x21 window
// of submap slots a generation session keeps resident, per spec.md §3's
// ownership rule that a slot is either null or holds exactly one submap,
// never shared between two slots.
package worldmap

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/submap"
)

// GridSize is the edge length, in submaps, of the live game-map window.
const GridSize = 11

// ZLevels is the number of z-levels a game map spans, indexed by z-offset
// from the underground floor, matching the overmap's own 21-layer depth.
const ZLevels = 21

// GameMap owns an 11x11x21 grid of submap slots whose local slot (0,0,0)
// sits at an absolute submap coordinate (the origin). A slot is nil until a generator installs a submap into
// it; installing into an occupied slot replaces, never shares, the prior
// occupant.
type GameMap struct {
	OriginX, OriginY, OriginZ int
	slots                     [GridSize * GridSize * ZLevels]*submap.Submap
}

// NewGameMap creates an empty grid anchored at the given absolute submap
// coordinate, which is the absolute position of local slot (0,0,0).
func NewGameMap(originX, originY, originZ int) *GameMap {
	return &GameMap{OriginX: originX, OriginY: originY, OriginZ: originZ}
}

func (m *GameMap) slotIndex(x, y, z int) (int, bool) {
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize || z < 0 || z >= ZLevels {
		return 0, false
	}
	return (z*GridSize+y)*GridSize + x, true
}

// Get returns the submap installed at local grid coordinates (x,y,z), or
// nil with ok=false if the slot is empty or out of bounds.
func (m *GameMap) Get(x, y, z int) (*submap.Submap, bool) {
	idx, ok := m.slotIndex(x, y, z)
	if !ok {
		return nil, false
	}
	sm := m.slots[idx]
	return sm, sm != nil
}

// Set installs sm into the slot at (x,y,z), replacing whatever submap
// previously occupied it. Set(nil) clears the slot.
func (m *GameMap) Set(x, y, z int, sm *submap.Submap) error {
	idx, ok := m.slotIndex(x, y, z)
	if !ok {
		return fmt.Errorf("worldmap: slot (%d,%d,%d) out of bounds", x, y, z)
	}
	m.slots[idx] = sm
	return nil
}

// Clear empties the slot at (x,y,z), equivalent to Set(x,y,z,nil) but
// reporting the same bounds error.
func (m *GameMap) Clear(x, y, z int) error {
	return m.Set(x, y, z, nil)
}

// IsEmpty reports whether the slot at (x,y,z) holds no submap. An
// out-of-bounds coordinate counts as empty.
func (m *GameMap) IsEmpty(x, y, z int) bool {
	sm, ok := m.Get(x, y, z)
	return !ok || sm == nil
}

// AbsoluteOf translates local grid coordinates to absolute submap
// coordinates using the grid's origin.
func (m *GameMap) AbsoluteOf(x, y, z int) (int, int, int) {
	return m.OriginX + x, m.OriginY + y, m.OriginZ + z
}

// Count returns the number of non-nil slots currently installed.
func (m *GameMap) Count() int {
	n := 0
	for _, sm := range m.slots {
		if sm != nil {
			n++
		}
	}
	return n
}

// AllSubmaps returns every non-nil submap currently installed, in slot
// order, for callers (validation, export) that want to walk the whole
// window without caring about individual slot coordinates.
func (m *GameMap) AllSubmaps() []*submap.Submap {
	out := make([]*submap.Submap, 0, m.Count())
	for _, sm := range m.slots {
		if sm != nil {
			out = append(out, sm)
		}
	}
	return out
}
