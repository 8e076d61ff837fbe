package overmap

import (
	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/mapgen"
	"github.com/ashfall-game/mapgen/pkg/rng"
)

// GenConfig parameterizes a full overmap generation pass: the default
// wilderness terrain id to fill every cell with, the city terrain id
// stamped at each placed city's footprint, the road terrain id stamped
// along road routes, and the city placement parameters. Density is carried
// for DensityAt lookups; Generate does not read it.
type GenConfig struct {
	WildernessTerrain string
	CityTerrain       string
	RoadTerrain       string
	Cities            CityConfig
	Density           DensityCurve
}

// DefaultGenConfig returns a config with the package's default city
// placement parameters and a linear density falloff.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		WildernessTerrain: "omt_field",
		CityTerrain:       "omt_house",
		RoadTerrain:       "omt_road",
		Cities:            DefaultCityConfig(),
		Density:           NewDensityCurve(nil),
	}
}

// Generator stamps base terrain, cities, and roads onto a fresh Overmap,
// per spec.md §4.5's "an overmap generator stamps base terrain and
// cities."
type Generator struct {
	OvermapTerrain *content.Store[mapgen.OvermapTerrainDef]
}

// Generate builds a new Overmap at absolute coordinate (x,y): fills the
// ground layer with wilderness terrain, places cities via rejection
// sampling, stamps each city's footprint, connects cities with a road
// graph, and stamps one road-terrain cell per hop along each road's
// straight-line route.
func (g *Generator) Generate(x, y int, cfg GenConfig, r *rng.RNG, log *diagnostics.Log) *Overmap {
	om := NewOvermap(x, y)

	wilderness := cfg.WildernessTerrain
	if wilderness == "" {
		wilderness = mapgen.NullOvermapTerrainID
	}
	if _, ok := g.OvermapTerrain.Get(wilderness); !ok {
		log.Recordf(diagnostics.MissingReference, "overmap_terrain %q", wilderness)
		wilderness = mapgen.NullOvermapTerrainID
	}
	for cy := 0; cy < Size; cy++ {
		for cx := 0; cx < Size; cx++ {
			om.SetTerrain(cx, cy, 0, wilderness)
		}
	}

	cities := PlaceCities(om, cfg.Cities, r)
	g.stampCities(om, cities, cfg, log)
	g.stampRoads(om, cities, cfg, log)

	return om
}

func (g *Generator) stampCities(om *Overmap, cities []City, cfg GenConfig, log *diagnostics.Log) {
	if cfg.CityTerrain == "" {
		return
	}
	if _, ok := g.OvermapTerrain.Get(cfg.CityTerrain); !ok {
		log.Recordf(diagnostics.MissingReference, "overmap_terrain %q", cfg.CityTerrain)
		return
	}
	for _, c := range cities {
		for oy := -c.Size / 2; oy <= c.Size/2; oy++ {
			for ox := -c.Size / 2; ox <= c.Size/2; ox++ {
				om.SetTerrain(c.X+ox, c.Y+oy, 0, cfg.CityTerrain)
			}
		}
	}
}

func (g *Generator) stampRoads(om *Overmap, cities []City, cfg GenConfig, log *diagnostics.Log) {
	if cfg.RoadTerrain == "" || len(cities) < 2 {
		return
	}
	if _, ok := g.OvermapTerrain.Get(cfg.RoadTerrain); !ok {
		log.Recordf(diagnostics.MissingReference, "overmap_terrain %q", cfg.RoadTerrain)
		return
	}
	roads, err := BuildRoadGraph(cities, uint64(len(cities)))
	if err != nil {
		log.Recordf(diagnostics.ParseError, "overmap: road graph: %v", err)
		return
	}
	byID := make(map[string]City, len(cities))
	for _, c := range cities {
		byID[c.ID] = c
	}
	for _, conn := range roads.Connectors {
		from, ok1 := byID[conn.From]
		to, ok2 := byID[conn.To]
		if !ok1 || !ok2 {
			continue
		}
		walkLine(from.X, from.Y, to.X, to.Y, func(x, y int) {
			if om.GetCell(x, y, 0).Terrain == cfg.CityTerrain {
				return
			}
			om.SetTerrain(x, y, 0, cfg.RoadTerrain)
		})
	}
}

// walkLine visits every integer cell on the straight line from (x0,y0) to
// (x1,y1) via Bresenham's algorithm.
func walkLine(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		visit(x, y)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
