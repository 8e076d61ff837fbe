package mapgen

import (
	"fmt"
	"math"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/furniture"
	"github.com/ashfall-game/mapgen/pkg/palette"
	"github.com/ashfall-game/mapgen/pkg/rng"
	"github.com/ashfall-game/mapgen/pkg/submap"
	"github.com/ashfall-game/mapgen/pkg/terrain"
	"github.com/ashfall-game/mapgen/pkg/trap"
)

// Context is the generation context spec.md §4.3 names: an absolute world
// position, the owning map handle is left to the caller (pkg/worldmap), and
// the nested-mapgen recursion depth.
type Context struct {
	X, Y, Z    int
	Parameters map[string]string
	Depth      int
}

// MultiResult is the return shape of GenerateMultiple: the submap grid plus
// its dimensions, per spec.md §6's `{ submaps, submapGridWidth,
// submapGridHeight }`.
type MultiResult struct {
	Submaps    []*submap.Submap
	GridWidth  int
	GridHeight int
}

// MapGenGenerator interprets a resolved Template plus a Context into one or
// more submaps, consulting the terrain/furniture/trap stores for symbol
// resolution and, for place_nested / nested-symbol directives, its own
// Templates store and an optional palette Resolver.
type MapGenGenerator struct {
	Terrain   *content.Store[terrain.Def]
	Furniture *content.Store[furniture.Def]
	Trap      *content.Store[trap.Def]
	Palettes  *content.Store[palette.Palette]
	Templates *content.Store[Template]

	Resolver       *palette.Resolver
	ResolverConfig palette.ResolverConfig
}

// Generate resolves tmpl's palette references (if any) and materializes a
// single 12x12 submap, per spec.md §4.3's numbered algorithm.
func (g *MapGenGenerator) Generate(ctx Context, tmpl Template, r *rng.RNG, log *diagnostics.Log) *submap.Submap {
	tmpl = g.resolveTemplate(tmpl, ctx, r, log)
	return g.generateResolved(ctx, tmpl, r, log)
}

// GenerateByID looks up tmplID in g.Templates and generates it; used for
// nested mapgen composition so every recursive call goes through the same
// palette-resolution and depth-check path as a top-level call.
func (g *MapGenGenerator) GenerateByID(ctx Context, tmplID string, r *rng.RNG, log *diagnostics.Log) (*submap.Submap, bool) {
	tmpl, ok := g.Templates.Get(tmplID)
	if !ok {
		log.Recordf(diagnostics.MissingReference, "mapgen %q", tmplID)
		return nil, false
	}
	return g.Generate(ctx, tmpl, r, log), true
}

func (g *MapGenGenerator) generateResolved(ctx Context, tmpl Template, r *rng.RNG, log *diagnostics.Log) *submap.Submap {
	fill := 0
	if tmpl.FillTer != "" {
		if id := g.Terrain.IntID(tmpl.FillTer); id >= 0 {
			fill = id
		} else {
			log.Recordf(diagnostics.MissingReference, "fill_ter terrain %q", tmpl.FillTer)
		}
	}
	sm := submap.NewUniform(fill)

	if len(tmpl.Rows) == 0 {
		return sm
	}

	for y := 0; y < submap.Size && y < len(tmpl.Rows); y++ {
		runes := []rune(tmpl.Rows[y])
		for x := 0; x < submap.Size && x < len(runes); x++ {
			c := string(runes[x])
			if c == " " {
				continue
			}
			g.resolveCell(sm, tmpl, c, ctx, r, log, x, y)
		}
	}

	p := placer{width: submap.Size, height: submap.Size, route: func(wx, wy int) (*submap.Submap, int, int, bool) {
		return sm, wx, wy, true
	}}
	g.runDirectives(p, tmpl, ctx, r, log)

	g.applyOrientation(sm, tmpl)
	sm.Optimize()
	return sm
}

// GenerateMultiple spans a template whose declared width/height exceed one
// submap across a grid of 12x12 submaps, generated left-to-right,
// top-to-bottom, per spec.md §4.3's "Multi-submap generation".
func (g *MapGenGenerator) GenerateMultiple(ctx Context, tmpl Template, r *rng.RNG, log *diagnostics.Log) (MultiResult, error) {
	tmpl = g.resolveTemplate(tmpl, ctx, r, log)

	width, height := tmpl.Width, tmpl.Height
	if width <= 0 {
		width = submap.Size
	}
	if height <= 0 {
		height = submap.Size
	}
	if width%submap.Size != 0 || height%submap.Size != 0 {
		return MultiResult{}, fmt.Errorf("mapgen: template %q dimensions %dx%d are not multiples of %d", tmpl.ID, width, height, submap.Size)
	}

	gridW, gridH := width/submap.Size, height/submap.Size
	grid := make([]*submap.Submap, gridW*gridH)

	fill := 0
	if tmpl.FillTer != "" {
		if id := g.Terrain.IntID(tmpl.FillTer); id >= 0 {
			fill = id
		}
	}
	for i := range grid {
		grid[i] = submap.NewUniform(fill)
	}

	for wy := 0; wy < height && wy < len(tmpl.Rows); wy++ {
		runes := []rune(tmpl.Rows[wy])
		for wx := 0; wx < width && wx < len(runes); wx++ {
			c := string(runes[wx])
			if c == " " {
				continue
			}
			gx, gy := wx/submap.Size, wy/submap.Size
			lx, ly := wx%submap.Size, wy%submap.Size
			g.resolveCell(grid[gy*gridW+gx], tmpl, c, ctx, r, log, lx, ly)
		}
	}

	p := placer{width: width, height: height, route: func(wx, wy int) (*submap.Submap, int, int, bool) {
		if wx < 0 || wx >= width || wy < 0 || wy >= height {
			return nil, 0, 0, false
		}
		gx, gy := wx/submap.Size, wy/submap.Size
		return grid[gy*gridW+gx], wx % submap.Size, wy % submap.Size, true
	}}
	g.runDirectives(p, tmpl, ctx, r, log)

	for _, sm := range grid {
		g.applyOrientation(sm, tmpl)
		sm.Optimize()
	}

	return MultiResult{Submaps: grid, GridWidth: gridW, GridHeight: gridH}, nil
}

func (g *MapGenGenerator) applyOrientation(sm *submap.Submap, tmpl Template) {
	if tmpl.HasFlag("NO_UNDERLYING_ROTATE") {
		return
	}
	if tmpl.Rotation != 0 {
		sm.Rotate(tmpl.Rotation)
	}
	switch tmpl.Mirror {
	case "horizontal":
		sm.Mirror(true)
	case "vertical":
		sm.Mirror(false)
	}
}

// resolveTemplate merges tmpl's palette references via g.Resolver, leaving
// tmpl untouched if it carries no palette references or no resolver is
// wired (a caller may pre-resolve templates itself and share one Resolver
// result across many generate calls).
func (g *MapGenGenerator) resolveTemplate(tmpl Template, ctx Context, r *rng.RNG, log *diagnostics.Log) Template {
	if g.Resolver == nil || len(tmpl.Palettes) == 0 {
		return tmpl
	}
	own := palette.Tables{
		Terrain:   tmpl.Terrain,
		Furniture: tmpl.Furniture,
		Items:     tmpl.Items,
		Nested:    tmpl.Nested,
		Traps:     tmpl.Traps,
	}
	cfg := g.ResolverConfig
	if cfg.ParameterOverrides == nil {
		cfg.ParameterOverrides = ctx.Parameters
	}
	merged := g.Resolver.Resolve(own, tmpl.Palettes, cfg, r, log)
	tmpl.Terrain, tmpl.Furniture, tmpl.Items, tmpl.Nested, tmpl.Traps =
		merged.Terrain, merged.Furniture, merged.Items, merged.Nested, merged.Traps
	return tmpl
}

// resolveMapping reduces a Mapping to a concrete id at generation time: a
// Single value passes through, a Weighted value is drawn per spec.md's
// "the selection is re-drawn per generation (not once per mapgen)", and a
// Param value is resolved against ctx.Parameters (the generation-time
// parameter overrides, distinct from a palette's own parameter defaults).
func (g *MapGenGenerator) resolveMapping(m palette.Mapping, ctx Context, r *rng.RNG, log *diagnostics.Log) string {
	switch m.Kind {
	case palette.Single:
		return m.SingleID
	case palette.Weighted:
		return palette.SelectMapping(m, r, log)
	case palette.Param:
		if override, ok := ctx.Parameters[m.ParamRef]; ok {
			return override
		}
		log.Recordf(diagnostics.MissingReference, "parameter %q has no generation-time override", m.ParamRef)
		return ""
	default:
		return ""
	}
}

// resolveCell installs terrain/furniture/trap/items at (x,y) from the
// symbol c's merged-table mappings, per spec.md §4.3 step 2. An unresolved
// character that maps to nothing in any table is logged once.
func (g *MapGenGenerator) resolveCell(sm *submap.Submap, tmpl Template, c string, ctx Context, r *rng.RNG, log *diagnostics.Log, x, y int) {
	resolved := false

	if m, ok := tmpl.Terrain[c]; ok {
		if id := g.resolveMapping(m, ctx, r, log); id != "" {
			resolved = true
			if intID := g.Terrain.IntID(id); intID >= 0 {
				_ = sm.SetTerrain(x, y, intID)
			} else {
				log.Recordf(diagnostics.MissingReference, "terrain %q", id)
			}
		}
	}
	if m, ok := tmpl.Furniture[c]; ok {
		if id := g.resolveMapping(m, ctx, r, log); id != "" {
			resolved = true
			if intID := g.Furniture.IntID(id); intID >= 0 {
				_ = sm.SetFurniture(x, y, intID)
			} else {
				log.Recordf(diagnostics.MissingReference, "furniture %q", id)
			}
		}
	}
	if m, ok := tmpl.Traps[c]; ok {
		if id := g.resolveMapping(m, ctx, r, log); id != "" {
			resolved = true
			if intID := g.Trap.IntID(id); intID >= 0 {
				_ = sm.SetTrap(x, y, intID)
			} else {
				log.Recordf(diagnostics.MissingReference, "trap %q", id)
			}
		}
	}
	if m, ok := tmpl.Items[c]; ok {
		if id := g.resolveMapping(m, ctx, r, log); id != "" {
			resolved = true
			_ = sm.SetItems(x, y, append(sm.Items(x, y), id))
		}
	}
	if m, ok := tmpl.Nested[c]; ok {
		if id := g.resolveMapping(m, ctx, r, log); id != "" {
			resolved = true
			g.stampNested(sm, id, x, y, ctx, r, log)
		}
	}

	if !resolved {
		log.Recordf(diagnostics.UnresolvedSymbol, "character %q has no mapping", c)
	}
}

// placer routes a world-space (x,y) drawn from a place directive's Location
// to the submap (and local coordinates within it) that owns that cell.
// Single-submap generation routes everything to the one submap;
// GenerateMultiple routes across the grid, letting directives span submap
// boundaries per spec.md §4.3's "applied in world-cell coordinates and then
// partitioned per target submap".
type placer struct {
	width, height int
	route         func(wx, wy int) (sm *submap.Submap, lx, ly int, ok bool)
}

func (p placer) resolve(loc Location, r *rng.RNG) (*submap.Submap, int, int, bool) {
	wx, wy := loc.resolve(r, p.width, p.height)
	return p.route(wx, wy)
}

// resolve draws a concrete world cell within the location constraint: a
// point, an independent-per-axis rectangle, or (with Radius set) a scatter
// around the drawn point.
func (loc Location) resolve(r *rng.RNG, maxW, maxH int) (int, int) {
	x, y := loc.X.Pick(r), loc.Y.Pick(r)
	if loc.Radius != nil {
		if rad := loc.Radius.Pick(r); rad > 0 {
			angle := r.Float64Range(0, 2*math.Pi)
			dist := r.Float64Range(0, float64(rad))
			x += int(dist * math.Cos(angle))
			y += int(dist * math.Sin(angle))
		}
	}
	return clampCoord(x, maxW), clampCoord(y, maxH)
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

var oneRepeat = Coord{Min: 1, Max: 1}

// rollChance reports whether a chance-gated directive instance fires;
// chance 0 or 100 always fires (chance is a percent, default 100 when
// unset).
func rollChance(r *rng.RNG, chance int) bool {
	if chance <= 0 || chance >= 100 {
		return true
	}
	return r.IntRange(1, 100) <= chance
}

// runDirectives executes every place_* directive kind in source order
// (spec.md §5: "directives execute in source order"), routing each drawn
// cell through p so the same logic serves both Generate and
// GenerateMultiple.
func (g *MapGenGenerator) runDirectives(p placer, tmpl Template, ctx Context, r *rng.RNG, log *diagnostics.Log) {
	for _, d := range tmpl.PlaceItems {
		n := d.Repeat.withDefault(oneRepeat).Pick(r)
		for i := 0; i < n; i++ {
			if !rollChance(r, d.Chance) {
				continue
			}
			sm, x, y, ok := p.resolve(d.Location, r)
			if !ok || d.Group == "" {
				continue
			}
			_ = sm.SetItems(x, y, append(sm.Items(x, y), d.Group))
		}
	}

	for _, d := range tmpl.PlaceTraps {
		n := d.Repeat.withDefault(oneRepeat).Pick(r)
		for i := 0; i < n; i++ {
			sm, x, y, ok := p.resolve(d.Location, r)
			if !ok {
				continue
			}
			intID := g.Trap.IntID(d.Trap)
			if intID < 0 {
				log.Recordf(diagnostics.MissingReference, "trap %q", d.Trap)
				continue
			}
			_ = sm.SetTrap(x, y, intID)
		}
	}

	for _, d := range tmpl.PlaceMonsters {
		n := d.Repeat.withDefault(oneRepeat).Pick(r)
		for i := 0; i < n; i++ {
			if !rollChance(r, d.Chance) {
				continue
			}
			sm, x, y, ok := p.resolve(d.Location, r)
			if !ok || d.Group == "" {
				continue
			}
			sm.AddSpawn(submap.SpawnPoint{X: x, Y: y, Kind: "monster:" + d.Group})
		}
	}

	for _, d := range tmpl.PlaceVehicles {
		n := d.Repeat.withDefault(oneRepeat).Pick(r)
		for i := 0; i < n; i++ {
			if !rollChance(r, d.Chance) {
				continue
			}
			sm, x, y, ok := p.resolve(d.Location, r)
			if !ok || d.ID == "" {
				continue
			}
			sm.AddSpawn(submap.SpawnPoint{X: x, Y: y, Kind: "vehicle:" + d.ID})
		}
	}

	for _, d := range tmpl.PlaceRubble {
		n := d.Repeat.withDefault(oneRepeat).Pick(r)
		for i := 0; i < n; i++ {
			sm, x, y, ok := p.resolve(d.Location, r)
			if !ok {
				continue
			}
			sm.AddSpawn(submap.SpawnPoint{X: x, Y: y, Kind: "rubble"})
		}
	}

	for _, d := range tmpl.PlaceGraffiti {
		sm, x, y, ok := p.resolve(d.Location, r)
		if !ok || d.Text == "" {
			continue
		}
		sm.AddSpawn(submap.SpawnPoint{X: x, Y: y, Kind: "graffiti:" + d.Text})
	}

	for _, d := range tmpl.PlaceNpcs {
		n := d.Repeat.withDefault(oneRepeat).Pick(r)
		for i := 0; i < n; i++ {
			sm, x, y, ok := p.resolve(d.Location, r)
			if !ok || d.Class == "" {
				continue
			}
			sm.AddSpawn(submap.SpawnPoint{X: x, Y: y, Kind: "npc:" + d.Class})
		}
	}

	for _, d := range tmpl.PlaceNested {
		sm, x, y, ok := p.resolve(d.Location, r)
		if !ok {
			continue
		}
		id := g.resolveMapping(d.Chunk, ctx, r, log)
		if id == "" {
			continue
		}
		g.stampNested(sm, id, x, y, ctx, r, log)
	}
}

// stampNested recursively generates the nested mapgen id and splices its
// cells into parent at the anchor (x,y), per spec.md §4.3 step 5.
func (g *MapGenGenerator) stampNested(parent *submap.Submap, nestedID string, anchorX, anchorY int, ctx Context, r *rng.RNG, log *diagnostics.Log) {
	if ctx.Depth >= MaxNestedDepth {
		log.Recordf(diagnostics.DepthLimitExceeded, "nested mapgen %q at depth %d", nestedID, ctx.Depth)
		return
	}
	childCtx := ctx
	childCtx.Depth++
	child, ok := g.GenerateByID(childCtx, nestedID, r, log)
	if !ok {
		return
	}
	spliceSubmap(parent, child, anchorX, anchorY)
}

// spliceSubmap copies every cell of child into parent, offset by (ox,oy),
// clipping anything that falls outside parent's bounds.
func spliceSubmap(parent, child *submap.Submap, ox, oy int) {
	for y := 0; y < submap.Size; y++ {
		for x := 0; x < submap.Size; x++ {
			px, py := ox+x, oy+y
			if px < 0 || px >= submap.Size || py < 0 || py >= submap.Size {
				continue
			}
			_ = parent.SetTile(px, py, child.GetTile(x, y))
			if items := child.Items(x, y); len(items) > 0 {
				_ = parent.SetItems(px, py, items)
			}
			if trapID := child.Trap(x, y); trapID != 0 {
				_ = parent.SetTrap(px, py, trapID)
			}
			if field, ok := child.Field(x, y); ok {
				_ = parent.SetField(px, py, field)
			}
		}
	}
	for _, sp := range child.Spawns() {
		parent.AddSpawn(submap.SpawnPoint{X: ox + sp.X, Y: oy + sp.Y, Kind: sp.Kind})
	}
}
