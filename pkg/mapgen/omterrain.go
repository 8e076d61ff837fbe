package mapgen

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

// OvermapTerrainRecordType is the `type` discriminator overmap-terrain
// records carry.
const OvermapTerrainRecordType = "overmap_terrain"

// NullOvermapTerrainID is the reserved id for an unset overmap cell.
const NullOvermapTerrainID = "omt_null"

// OvermapTerrainDef is one symbol of the 180x180 overmap grid: the
// world-scale analogue of terrain.Def, each instance corresponding to a
// 2x2 block of submaps per the GLOSSARY's "OMT" entry.
type OvermapTerrainDef struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Symbol  string   `json:"sym"`
	Color   string   `json:"color"`
	SeeCost int      `json:"see_cost"`
	Flags   []string `json:"flags"`
}

// HasFlag reports whether the overmap terrain carries the named flag.
func (d OvermapTerrainDef) HasFlag(flag string) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// LoadOvermapTerrain parses overmap_terrain records, resolves copy-from
// inheritance, and returns a built Store, the null entry always present at
// integer id 0.
func LoadOvermapTerrain(data []byte, log *diagnostics.Log) (*content.Store[OvermapTerrainDef], error) {
	records, err := content.ParseRecords(data, OvermapTerrainRecordType, log)
	if err != nil {
		return nil, fmt.Errorf("mapgen: overmap_terrain: %w", err)
	}

	store := content.NewStore[OvermapTerrainDef]()
	store.Add(NullOvermapTerrainID, OvermapTerrainDef{ID: NullOvermapTerrainID, Name: "nothing"})

	merged := content.ResolveInheritance(records, log)
	for id, fields := range merged {
		var def OvermapTerrainDef
		if err := content.Decode(fields, &def); err != nil {
			log.Recordf(diagnostics.ParseError, "overmap_terrain %q: %v", id, err)
			continue
		}
		def.ID = id
		if def.Name == "" {
			log.Recordf(diagnostics.ParseError, "overmap_terrain %q: missing required field name", id)
			continue
		}
		store.Add(id, def)
	}
	store.Freeze()
	return store, nil
}

// OvermapSpecialRecordType is the `type` discriminator overmap-special
// records carry.
const OvermapSpecialRecordType = "overmap_special"

// OvermapSpecialPlacement names one overmap terrain within a special,
// positioned relative to the special's anchor.
type OvermapSpecialPlacement struct {
	Point   [3]int `json:"point"` // x, y, z offset from the anchor
	Overmap string `json:"overmap"`
}

// OvermapSpecialDef is a cluster of overmap terrains placed together (a
// "special": a city building, a crashed vehicle, a bandit camp), used by
// the overmap city generator to stamp more than one OMT cell per placement.
type OvermapSpecialDef struct {
	ID          string                    `json:"id"`
	Overmaps    []OvermapSpecialPlacement `json:"overmaps"`
	Flags       []string                  `json:"flags"`
	Rotate      bool                      `json:"rotate"`
	Occurrences Coord                     `json:"occurrences"`
}

// HasFlag reports whether the special carries the named flag.
func (d OvermapSpecialDef) HasFlag(flag string) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// LoadOvermapSpecial parses overmap_special records and returns a built
// Store. Specials carry no copy-from inheritance in practice, so records
// are decoded directly, matching pkg/palette.Load's rationale for skipping
// the two-pass resolver where it has nothing to do.
func LoadOvermapSpecial(data []byte, log *diagnostics.Log) (*content.Store[OvermapSpecialDef], error) {
	records, err := content.ParseRecords(data, OvermapSpecialRecordType, log)
	if err != nil {
		return nil, fmt.Errorf("mapgen: overmap_special: %w", err)
	}

	store := content.NewStore[OvermapSpecialDef]()
	for _, rec := range records {
		if rec.IsAbstract() {
			continue
		}
		var def OvermapSpecialDef
		if err := content.Decode(rec.Fields, &def); err != nil {
			log.Recordf(diagnostics.ParseError, "overmap_special %q: %v", rec.ID, err)
			continue
		}
		def.ID = rec.ID
		store.Add(rec.ID, def)
	}
	store.Freeze()
	return store, nil
}
