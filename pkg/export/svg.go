package export

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/submap"
	"github.com/ashfall-game/mapgen/pkg/terrain"
)

// SVGOptions configures submap SVG visualization: canvas size, per-cell
// pixel size, and legend/title toggles.
type SVGOptions struct {
	CellSize   int    // Pixel size of one cell's square
	ShowGrid   bool   // Draw cell gridlines
	ShowLegend bool   // Draw a terrain color legend
	Title      string // Optional title text
}

// DefaultSVGOptions returns sensible default options: a 24px cell, no grid
// overlay, a legend, and no title.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		CellSize:   24,
		ShowGrid:   false,
		ShowLegend: true,
	}
}

// ExportSVG rasterizes sm to SVG, one rect per cell colored by its
// terrain's Color field.
func ExportSVG(sm *submap.Submap, terrainStore *content.Store[terrain.Def], opts SVGOptions) ([]byte, error) {
	if sm == nil {
		return nil, fmt.Errorf("export: submap cannot be nil")
	}
	if terrainStore == nil {
		return nil, fmt.Errorf("export: terrain store cannot be nil")
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 24
	}

	margin := 20
	header := 0
	if opts.Title != "" {
		header = 30
	}
	legendHeight := 0
	if opts.ShowLegend {
		legendHeight = 30
	}
	width := submap.Size*opts.CellSize + margin*2
	height := submap.Size*opts.CellSize + margin*2 + header + legendHeight

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#101018")

	seen := make(map[int]bool)
	for y := 0; y < submap.Size; y++ {
		for x := 0; x < submap.Size; x++ {
			tile := sm.GetTile(x, y)
			color := terrainColor(terrainStore, tile.Terrain)
			seen[tile.Terrain] = true

			px := margin + x*opts.CellSize
			py := margin + header + y*opts.CellSize
			style := fmt.Sprintf("fill:%s", color)
			if opts.ShowGrid {
				style += ";stroke:#333;stroke-width:1"
			}
			canvas.Rect(px, py, opts.CellSize, opts.CellSize, style)

			if tile.Furniture != 0 {
				fx := px + opts.CellSize/4
				fy := py + opts.CellSize/4
				fs := opts.CellSize / 2
				canvas.Rect(fx, fy, fs, fs, "fill:#8b5e3c;opacity:0.8")
			}
		}
	}

	if opts.Title != "" {
		canvas.Text(margin, 20, opts.Title, "fill:#fff;font-size:16px;font-family:sans-serif")
	}

	if opts.ShowLegend {
		drawLegend(canvas, terrainStore, seen, margin, height-legendHeight, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile generates a submap SVG visualization and saves it to a
// file with 0644 permissions.
func SaveSVGToFile(sm *submap.Submap, terrainStore *content.Store[terrain.Def], filepath string, opts SVGOptions) error {
	data, err := ExportSVG(sm, terrainStore, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// terrainColor looks up the display color for a terrain int id, falling
// back to a neutral gray for an id the store doesn't recognize (export is
// best-effort visualization, never a hard failure).
func terrainColor(terrainStore *content.Store[terrain.Def], id int) string {
	def, ok := terrainStore.GetByIntID(id)
	if !ok || def.Color == "" {
		return "#4a5568"
	}
	return def.Color
}

func drawLegend(canvas *svg.SVG, terrainStore *content.Store[terrain.Def], seen map[int]bool, x, y int, opts SVGOptions) {
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	swatch := 12
	lx := x
	for _, id := range ids {
		def, ok := terrainStore.GetByIntID(id)
		name := "unknown"
		color := "#4a5568"
		if ok {
			name = def.Name
			if def.Color != "" {
				color = def.Color
			}
		}
		canvas.Rect(lx, y, swatch, swatch, fmt.Sprintf("fill:%s", color))
		canvas.Text(lx+swatch+4, y+swatch, name, "fill:#ccc;font-size:11px;font-family:sans-serif")
		lx += swatch + 80
	}
}
