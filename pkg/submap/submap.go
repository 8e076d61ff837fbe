// Package submap implements the fixed 12x12 tile grid that is the unit of
// map storage: a submap is either uniform (a single terrain id, no extras)
// or expanded into structure-of-arrays columns. The two forms are mutually
// exclusive; writes that would violate uniformity lazily expand.
package submap

import (
	"fmt"
	"time"
)

// Size is the submap's edge length in cells.
const Size = 12

// Cells is the total number of cells in a submap (Size * Size).
const Cells = Size * Size

// NullTerrain is the reserved terrain id used to fill a submap with no
// other information, matching the content stores' reserved id 0.
const NullTerrain = 0

// SpawnPoint marks a location reserved for runtime entity placement by an
// external collaborator (spawn resolution is opaque at this layer per
// spec.md's treatment of monster/npc placement).
type SpawnPoint struct {
	X, Y int
	Kind string
}

// FieldEntry is one sparse field-effect cell (gas, fire, liquid spread).
// Field semantics are opaque at the mapgen-core level; Type and Intensity
// are carried through for an external collaborator to interpret.
type FieldEntry struct {
	Type      string
	Intensity int
}

// Tile is the read/write unit over a submap cell: one terrain id, one
// furniture id, ambient luminance, and ambient radiation. Items, fields,
// and traps live in the sparse side tables and are not part of Tile.
type Tile struct {
	Terrain    int
	Furniture  int
	Luminance  int
	Radiation  int
}

// Submap is a 12x12 cell grid, either uniform or expanded (structure of
// arrays), never both — see IsUniform. The zero value is not valid; use
// NewUniform.
type Submap struct {
	uniform        bool
	uniformTerrain int

	terrain   [Cells]int
	furniture [Cells]int
	lum       [Cells]int
	radiation [Cells]int

	items map[int][]string
	fields map[int]FieldEntry
	traps map[int]int

	spawns      []SpawnPoint
	fieldCount  int
	lastTouched time.Time
}

// NewUniform constructs a submap in uniform form with the given terrain id.
func NewUniform(terrainID int) *Submap {
	return &Submap{
		uniform:        true,
		uniformTerrain: terrainID,
		lastTouched:    time.Now(),
	}
}

// index packs (x,y) into the flat array/map index used throughout the
// expanded representation, per spec.md's "packed (x,y)" sparse table keys.
func index(x, y int) int {
	return y*Size + x
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// IsUniform reports whether the submap is currently in compressed uniform
// form.
func (s *Submap) IsUniform() bool {
	return s.uniform
}

// UniformTerrain returns the uniform terrain id and true if the submap is
// uniform; otherwise returns (0, false).
func (s *Submap) UniformTerrain() (int, bool) {
	if !s.uniform {
		return 0, false
	}
	return s.uniformTerrain, true
}

// expand converts a uniform submap into its expanded structure-of-arrays
// form, filling every cell with the former uniform terrain. No-op if
// already expanded.
func (s *Submap) expand() {
	if !s.uniform {
		return
	}
	for i := range s.terrain {
		s.terrain[i] = s.uniformTerrain
	}
	s.uniform = false
}

// GetTerrain returns the terrain id at (x,y), or NullTerrain if out of
// bounds.
func (s *Submap) GetTerrain(x, y int) int {
	if !inBounds(x, y) {
		return NullTerrain
	}
	if s.uniform {
		return s.uniformTerrain
	}
	return s.terrain[index(x, y)]
}

// SetTerrain sets the terrain id at (x,y), expanding first if the write
// would violate uniformity.
func (s *Submap) SetTerrain(x, y, id int) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if s.uniform {
		if id == s.uniformTerrain {
			return nil
		}
		s.expand()
	}
	s.terrain[index(x, y)] = id
	s.touch()
	return nil
}

// GetFurniture returns the furniture id at (x,y), or 0 (null furniture) if
// uniform or out of bounds.
func (s *Submap) GetFurniture(x, y int) int {
	if !inBounds(x, y) || s.uniform {
		return 0
	}
	return s.furniture[index(x, y)]
}

// SetFurniture sets the furniture id at (x,y), expanding first if
// necessary.
func (s *Submap) SetFurniture(x, y, id int) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if s.uniform && id == 0 {
		return nil
	}
	s.expand()
	s.furniture[index(x, y)] = id
	s.touch()
	return nil
}

// GetLuminance returns ambient luminance at (x,y).
func (s *Submap) GetLuminance(x, y int) int {
	if !inBounds(x, y) || s.uniform {
		return 0
	}
	return s.lum[index(x, y)]
}

// SetLuminance sets ambient luminance at (x,y), expanding first if
// necessary.
func (s *Submap) SetLuminance(x, y, lum int) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if s.uniform && lum == 0 {
		return nil
	}
	s.expand()
	s.lum[index(x, y)] = lum
	s.touch()
	return nil
}

// GetRadiation returns radiation at (x,y).
func (s *Submap) GetRadiation(x, y int) int {
	if !inBounds(x, y) || s.uniform {
		return 0
	}
	return s.radiation[index(x, y)]
}

// SetRadiation sets radiation at (x,y), expanding first if necessary.
func (s *Submap) SetRadiation(x, y, rad int) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if s.uniform && rad == 0 {
		return nil
	}
	s.expand()
	s.radiation[index(x, y)] = rad
	s.touch()
	return nil
}

// GetTile returns the full tile at (x,y).
func (s *Submap) GetTile(x, y int) Tile {
	if !inBounds(x, y) {
		return Tile{}
	}
	if s.uniform {
		return Tile{Terrain: s.uniformTerrain}
	}
	i := index(x, y)
	return Tile{
		Terrain:   s.terrain[i],
		Furniture: s.furniture[i],
		Luminance: s.lum[i],
		Radiation: s.radiation[i],
	}
}

// SetTile writes a full tile at (x,y), expanding first if necessary.
func (s *Submap) SetTile(x, y int, t Tile) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if s.uniform && t.Furniture == 0 && t.Luminance == 0 && t.Radiation == 0 && t.Terrain == s.uniformTerrain {
		return nil
	}
	s.expand()
	i := index(x, y)
	s.terrain[i] = t.Terrain
	s.furniture[i] = t.Furniture
	s.lum[i] = t.Luminance
	s.radiation[i] = t.Radiation
	s.touch()
	return nil
}

// SetItems replaces the sparse item-group list at (x,y). An empty list
// clears the entry.
func (s *Submap) SetItems(x, y int, itemGroups []string) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if len(itemGroups) == 0 {
		if s.items != nil {
			delete(s.items, index(x, y))
		}
		return nil
	}
	s.expand()
	if s.items == nil {
		s.items = make(map[int][]string)
	}
	s.items[index(x, y)] = itemGroups
	s.touch()
	return nil
}

// Items returns the sparse item-group list at (x,y), or nil.
func (s *Submap) Items(x, y int) []string {
	if s.items == nil || !inBounds(x, y) {
		return nil
	}
	return s.items[index(x, y)]
}

// SetField sets a field entry at (x,y). Clears it entirely zero-valued.
func (s *Submap) SetField(x, y int, f FieldEntry) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	key := index(x, y)
	if f == (FieldEntry{}) {
		if s.fields != nil {
			if _, ok := s.fields[key]; ok {
				delete(s.fields, key)
				s.fieldCount--
			}
		}
		return nil
	}
	s.expand()
	if s.fields == nil {
		s.fields = make(map[int]FieldEntry)
	}
	if _, exists := s.fields[key]; !exists {
		s.fieldCount++
	}
	s.fields[key] = f
	s.touch()
	return nil
}

// Field returns the field entry at (x,y) and whether one is present.
func (s *Submap) Field(x, y int) (FieldEntry, bool) {
	if s.fields == nil || !inBounds(x, y) {
		return FieldEntry{}, false
	}
	f, ok := s.fields[index(x, y)]
	return f, ok
}

// FieldCount returns the number of sparse field entries currently set.
func (s *Submap) FieldCount() int {
	return s.fieldCount
}

// SetTrap sets the trap id at (x,y). A trap id of 0 (null trap) clears the
// sparse entry.
func (s *Submap) SetTrap(x, y, trapID int) error {
	if !inBounds(x, y) {
		return fmt.Errorf("submap: (%d,%d) out of bounds", x, y)
	}
	if trapID == 0 {
		if s.traps != nil {
			delete(s.traps, index(x, y))
		}
		return nil
	}
	s.expand()
	if s.traps == nil {
		s.traps = make(map[int]int)
	}
	s.traps[index(x, y)] = trapID
	s.touch()
	return nil
}

// Trap returns the trap id at (x,y), or 0 if none.
func (s *Submap) Trap(x, y int) int {
	if s.traps == nil || !inBounds(x, y) {
		return 0
	}
	return s.traps[index(x, y)]
}

// AddSpawn appends a spawn point. Spawns are submap-level bookkeeping, not
// part of the per-cell uniform/expanded check (open question in spec.md:
// "whether optimize is permitted to demote when spawns is non-empty" —
// resolved here as yes, spawns do not block optimize).
func (s *Submap) AddSpawn(sp SpawnPoint) {
	s.spawns = append(s.spawns, sp)
	s.touch()
}

// Spawns returns the submap's spawn points.
func (s *Submap) Spawns() []SpawnPoint {
	return s.spawns
}

// LastTouched returns the timestamp of the most recent mutation.
func (s *Submap) LastTouched() time.Time {
	return s.lastTouched
}

func (s *Submap) touch() {
	s.lastTouched = time.Now()
}

// Optimize demotes an expanded submap back to uniform form if every cell
// shares the terrain of cell (0,0) and no sparse extras (furniture, items,
// fields, traps) exist. No-op (and returns false) if already uniform or not
// eligible. Idempotent: calling Optimize on a freshly optimized or already
// uniform submap never changes state.
func (s *Submap) Optimize() bool {
	if s.uniform {
		return false
	}
	if len(s.items) != 0 || len(s.fields) != 0 || len(s.traps) != 0 {
		return false
	}
	base := s.terrain[0]
	for i := 1; i < Cells; i++ {
		if s.terrain[i] != base {
			return false
		}
	}
	for i := 0; i < Cells; i++ {
		if s.furniture[i] != 0 || s.lum[i] != 0 || s.radiation[i] != 0 {
			return false
		}
	}
	s.uniform = true
	s.uniformTerrain = base
	s.terrain = [Cells]int{}
	s.furniture = [Cells]int{}
	s.lum = [Cells]int{}
	s.radiation = [Cells]int{}
	return true
}
