// Package export implements the debug/interchange output formats for a
// submap: a plain JSON dump, an SVG rasterization for visual inspection of
// its tile grid, and a TMJ map for Tiled-compatible editors. Overmaps are
// not exported.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ashfall-game/mapgen/pkg/submap"
)

// SubmapDump is the JSON-serializable view of a submap: a flattened tile
// grid plus its sparse side tables, independent of whether the source
// submap is currently uniform or expanded internally.
type SubmapDump struct {
	Width, Height int
	Terrain       []int               `json:"terrain"`
	Furniture     []int               `json:"furniture"`
	Luminance     []int               `json:"luminance"`
	Radiation     []int               `json:"radiation"`
	Items         map[string][]string `json:"items,omitempty"`
	Traps         map[string]int      `json:"traps,omitempty"`
	Spawns        []submap.SpawnPoint `json:"spawns,omitempty"`
}

// DumpSubmap flattens sm into a SubmapDump, reading through the public
// Tile/Items/Trap accessors so the dump is identical whether sm is
// currently in uniform or expanded form.
func DumpSubmap(sm *submap.Submap) SubmapDump {
	d := SubmapDump{
		Width:     submap.Size,
		Height:    submap.Size,
		Terrain:   make([]int, submap.Cells),
		Furniture: make([]int, submap.Cells),
		Luminance: make([]int, submap.Cells),
		Radiation: make([]int, submap.Cells),
		Items:     make(map[string][]string),
		Traps:     make(map[string]int),
		Spawns:    sm.Spawns(),
	}

	for y := 0; y < submap.Size; y++ {
		for x := 0; x < submap.Size; x++ {
			i := y*submap.Size + x
			tile := sm.GetTile(x, y)
			d.Terrain[i] = tile.Terrain
			d.Furniture[i] = tile.Furniture
			d.Luminance[i] = tile.Luminance
			d.Radiation[i] = tile.Radiation

			if items := sm.Items(x, y); len(items) > 0 {
				d.Items[cellKey(x, y)] = items
			}
			if trap := sm.Trap(x, y); trap != 0 {
				d.Traps[cellKey(x, y)] = trap
			}
		}
	}
	return d
}

func cellKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// ExportJSON serializes a submap dump to indented JSON.
func ExportJSON(sm *submap.Submap) ([]byte, error) {
	return json.MarshalIndent(DumpSubmap(sm), "", "  ")
}

// ExportJSONCompact serializes a submap dump to compact JSON.
func ExportJSONCompact(sm *submap.Submap) ([]byte, error) {
	return json.Marshal(DumpSubmap(sm))
}

// SaveJSONToFile exports sm to an indented JSON file with 0644
// permissions.
func SaveJSONToFile(sm *submap.Submap, filepath string) error {
	data, err := ExportJSON(sm)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// SaveJSONCompactToFile exports sm to a compact JSON file with 0644
// permissions.
func SaveJSONCompactToFile(sm *submap.Submap, filepath string) error {
	data, err := ExportJSONCompact(sm)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
