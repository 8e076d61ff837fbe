package overmap

// Coord is an absolute overmap-grid coordinate (distinct from
// worldmap.SubmapCoord — one overmap covers a 180x180 block of OMT cells,
// itself a 2x2 block of submaps per the GLOSSARY's OMT entry).
type Coord struct {
	X, Y int
}

// Buffer is a key-value store from absolute overmap coordinates to at-most
// one Overmap each, plus a secondary cache for terrain definitions looked
// up during generation, per spec.md §4.5.
type Buffer struct {
	overmaps     map[Coord]*Overmap
	terrainCache map[string]int
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		overmaps:     make(map[Coord]*Overmap),
		terrainCache: make(map[string]int),
	}
}

// Store saves om under its own (X,Y), replacing any overmap previously
// stored at that coordinate.
func (b *Buffer) Store(om *Overmap) {
	b.overmaps[Coord{X: om.X, Y: om.Y}] = om
}

// Load retrieves the overmap stored at c, if any.
func (b *Buffer) Load(c Coord) (*Overmap, bool) {
	om, ok := b.overmaps[c]
	return om, ok
}

// Remove deletes the overmap stored at c.
func (b *Buffer) Remove(c Coord) {
	delete(b.overmaps, c)
}

// Len returns the number of overmaps currently buffered.
func (b *Buffer) Len() int {
	return len(b.overmaps)
}

// GetNeighbors returns the four cardinal neighbors of c that are currently
// loaded in the buffer, per spec.md §4.5's "returns the four cardinal
// neighbors that are currently loaded."
func (b *Buffer) GetNeighbors(c Coord) []*Overmap {
	candidates := []Coord{
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
	}
	var loaded []*Overmap
	for _, cand := range candidates {
		if om, ok := b.overmaps[cand]; ok {
			loaded = append(loaded, om)
		}
	}
	return loaded
}

// CacheTerrainID records the resolved integer id for a terrain string id,
// so repeated overmap-terrain lookups during generation avoid re-querying
// the content store.
func (b *Buffer) CacheTerrainID(terrainID string, intID int) {
	b.terrainCache[terrainID] = intID
}

// CachedTerrainID returns a previously cached integer id for terrainID.
func (b *Buffer) CachedTerrainID(terrainID string) (int, bool) {
	id, ok := b.terrainCache[terrainID]
	return id, ok
}
