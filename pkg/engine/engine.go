package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/furniture"
	"github.com/ashfall-game/mapgen/pkg/mapgen"
	"github.com/ashfall-game/mapgen/pkg/overmap"
	"github.com/ashfall-game/mapgen/pkg/palette"
	"github.com/ashfall-game/mapgen/pkg/rng"
	"github.com/ashfall-game/mapgen/pkg/submap"
	"github.com/ashfall-game/mapgen/pkg/synthesis"
	"github.com/ashfall-game/mapgen/pkg/terrain"
	"github.com/ashfall-game/mapgen/pkg/trap"
	"github.com/ashfall-game/mapgen/pkg/validate"
	"github.com/ashfall-game/mapgen/pkg/worldmap"
)

// Stores bundles every content store a generation session needs, loaded
// once from a Config's content directory and reused across calls.
type Stores struct {
	Terrain        *content.Store[terrain.Def]
	Furniture      *content.Store[furniture.Def]
	Trap           *content.Store[trap.Def]
	Palettes       *content.Store[palette.Palette]
	Templates      *content.Store[mapgen.Template]
	OvermapTerrain *content.Store[mapgen.OvermapTerrainDef]
}

// Result is everything one Generate call produces: the overmap backing
// the requested window, the populated game-map window itself, and the
// validation reports the pipeline computed along the way.
type Result struct {
	Stores *Stores
	Log    *diagnostics.Log

	Overmap       *overmap.Overmap
	GameMap       *worldmap.GameMap
	OvermapReport *validate.Report
	SubmapReport  *validate.Report
}

// LoadStores reads cfg.ContentDir's pack manifest and every file it
// lists, merges them into one combined record array, and builds every
// content store from that single blob — the per-type loaders each
// filter by their own `type` discriminator, so one merged array can
// back all six stores exactly as a single hand-authored JSON file would.
func LoadStores(cfg *Config, log *diagnostics.Log) (*Stores, error) {
	parts, err := content.LoadPackDirectory(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("engine: loading content pack: %w", err)
	}
	merged, err := mergeJSONArrays(parts)
	if err != nil {
		return nil, fmt.Errorf("engine: merging pack files: %w", err)
	}

	terrainStore, err := terrain.Load(merged, log)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	furnitureStore, err := furniture.Load(merged, log)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	trapStore, err := trap.Load(merged, log)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	paletteStore, err := palette.Load(merged, log)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	templateStore, err := mapgen.Load(merged, log)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	omTerrainStore, err := mapgen.LoadOvermapTerrain(merged, log)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Stores{
		Terrain:        terrainStore,
		Furniture:      furnitureStore,
		Trap:           trapStore,
		Palettes:       paletteStore,
		Templates:      templateStore,
		OvermapTerrain: omTerrainStore,
	}, nil
}

// mergeJSONArrays concatenates N JSON arrays of objects into one JSON
// array, preserving declaration order across files the way a single
// pack.yaml's file list implies a single load order.
func mergeJSONArrays(parts [][]byte) ([]byte, error) {
	var all []json.RawMessage
	for i, p := range parts {
		var elems []json.RawMessage
		if err := json.Unmarshal(p, &elems); err != nil {
			return nil, fmt.Errorf("pack file[%d]: %w", i, err)
		}
		all = append(all, elems...)
	}
	buf, err := json.Marshal(all)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf), nil
}

// pacingCurve resolves a Config's string curve name to a concrete
// synthesis.PacingCurve, defaulting to linear for an empty name.
func pacingCurve(name string) synthesis.PacingCurve {
	switch name {
	case "s_curve":
		return synthesis.NewSCurve()
	case "exponential":
		return synthesis.NewExponentialCurve()
	default:
		return &synthesis.LinearCurve{}
	}
}

// Generate runs the full pipeline: load content, generate an overmap at
// cfg.Overmap's coordinates, then populate an 11x11x21 game-map window
// at cfg.World's origin by materializing one mapgen template per slot,
// keyed off the overmap terrain id covering that slot. Every stage
// derives its RNG from cfg.Seed mixed with cfg.Hash(), so the same
// config always yields the same world.
func Generate(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	log := &diagnostics.Log{}
	stores, err := LoadStores(&cfg, log)
	if err != nil {
		return nil, err
	}

	hash := cfg.Hash()
	overmapRNG := rng.NewRNG(cfg.Seed, "overmap", hash)
	mapgenRNG := rng.NewRNG(cfg.Seed, "mapgen", hash)

	om := generateOvermap(&cfg, stores, overmapRNG, log)

	gameMap := worldmap.NewGameMap(cfg.World.OriginX, cfg.World.OriginY, cfg.World.OriginZ)
	gen := &mapgen.MapGenGenerator{
		Terrain:   stores.Terrain,
		Furniture: stores.Furniture,
		Trap:      stores.Trap,
		Palettes:  stores.Palettes,
		Templates: stores.Templates,
		Resolver:  palette.NewResolver(stores.Palettes),
	}
	populateGameMap(gameMap, om, gen, mapgenRNG, log)

	v := validate.NewValidator()
	overmapReport, err := v.ValidateOvermap(ctx, om, overmap.CityConfig{MinSpacing: cfg.Overmap.MinCitySpacing})
	if err != nil {
		return nil, fmt.Errorf("engine: validating overmap: %w", err)
	}
	submapReport, err := v.ValidateSubmaps(ctx, gameMap.AllSubmaps(), stores.Terrain, stores.Furniture)
	if err != nil {
		return nil, fmt.Errorf("engine: validating submaps: %w", err)
	}

	return &Result{
		Stores:        stores,
		Log:           log,
		Overmap:       om,
		GameMap:       gameMap,
		OvermapReport: overmapReport,
		SubmapReport:  submapReport,
	}, nil
}

func generateOvermap(cfg *Config, stores *Stores, r *rng.RNG, log *diagnostics.Log) *overmap.Overmap {
	genCfg := overmap.GenConfig{
		WildernessTerrain: cfg.Overmap.WildernessTerrain,
		CityTerrain:       cfg.Overmap.CityTerrain,
		RoadTerrain:       cfg.Overmap.RoadTerrain,
		Cities: overmap.CityConfig{
			Count:       cfg.Overmap.CityCount,
			MinSpacing:  cfg.Overmap.MinCitySpacing,
			MinSize:     cfg.Overmap.MinCitySize,
			MaxSize:     cfg.Overmap.MaxCitySize,
			MaxAttempts: cfg.Overmap.MaxAttempts,
		},
		Density: overmap.NewDensityCurve(pacingCurve(cfg.Overmap.PacingCurve)),
	}
	g := &overmap.Generator{OvermapTerrain: stores.OvermapTerrain}
	return g.Generate(cfg.Overmap.X, cfg.Overmap.Y, genCfg, r, log)
}

// populateGameMap fills every slot of m with a submap materialized from
// the mapgen template whose id matches the overmap terrain covering that
// slot, per spec.md's om_terrain-keyed template lookup. Overmap cells
// are twice the linear size of a submap (a 24x24 template spans a 2x2
// submap block), so a template wider than one submap is generated once
// per overmap cell and its four quadrant submaps are cached and reused
// across the slots that share them.
func populateGameMap(m *worldmap.GameMap, om *overmap.Overmap, gen *mapgen.MapGenGenerator, r *rng.RNG, log *diagnostics.Log) {
	type blockKey struct{ ox, oy, z int }
	blocks := make(map[blockKey]mapgen.MultiResult)

	for z := 0; z < worldmap.ZLevels; z++ {
		for sy := 0; sy < worldmap.GridSize; sy++ {
			for sx := 0; sx < worldmap.GridSize; sx++ {
				absX, absY, absZ := m.AbsoluteOf(sx, sy, z)
				ox, oy := absX/2, absY/2
				qx, qy := absX%2, absY%2

				cell := om.GetCell(ox, oy, z)
				tmpl, ok := gen.Templates.Get(cell.Terrain)
				if !ok {
					log.Recordf(diagnostics.MissingReference, "mapgen for overmap terrain %q", cell.Terrain)
					continue
				}

				genCtx := mapgen.Context{X: absX, Y: absY, Z: absZ}
				if tmpl.Width <= submap.Size && tmpl.Height <= submap.Size {
					sm := gen.Generate(genCtx, tmpl, r, log)
					_ = m.Set(sx, sy, z, sm)
					continue
				}

				key := blockKey{ox, oy, z}
				block, cached := blocks[key]
				if !cached {
					built, err := gen.GenerateMultiple(genCtx, tmpl, r, log)
					if err != nil {
						log.Recordf(diagnostics.TemplateBoundsError, "mapgen %q: %v", tmpl.ID, err)
						continue
					}
					block = built
					blocks[key] = block
				}
				if qy >= block.GridHeight || qx >= block.GridWidth {
					continue
				}
				sm := block.Submaps[qy*block.GridWidth+qx]
				_ = m.Set(sx, sy, z, sm)
			}
		}
	}
}
