// Package mapgen implements the mapgen interpreter: the component that
// consumes a palette-resolved template plus a generation context and
// materializes one or more 12x12 submaps, per spec.md §4.3.
package mapgen

import (
	"encoding/json"
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/palette"
	"github.com/ashfall-game/mapgen/pkg/submap"
)

// RecordType is the `type` discriminator this loader matches against.
const RecordType = "mapgen"

// MaxNestedDepth bounds place_nested / nested-symbol recursion per spec.md
// §4.3 step 5 ("Depth bound: 8; exceeding logs a warning and skips").
const MaxNestedDepth = 8

// Coord is a JSON field that is either a fixed integer or a `[min, max]`
// range drawn uniformly at use time: the shape spec.md uses for `repeat`,
// `x`/`y`, and `radius` fields throughout place directives.
type Coord struct {
	Min, Max int
}

// UnmarshalJSON accepts a bare integer or a two-element `[min, max]` array.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Coord{Min: n, Max: n}
		return nil
	}
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err == nil {
		*c = Coord{Min: pair[0], Max: pair[1]}
		return nil
	}
	return fmt.Errorf("mapgen: invalid coordinate value: %s", string(data))
}

// Pick draws a concrete value from the range using r; a fixed Coord (Min ==
// Max) always returns that value without consuming randomness.
func (c Coord) Pick(r randSource) int {
	if c.Min >= c.Max {
		return c.Min
	}
	return r.IntRange(c.Min, c.Max)
}

// randSource is the subset of *rng.RNG the mapgen package needs, named here
// so mapgen.go doesn't have to import pkg/rng just for this one method set.
type randSource interface {
	IntRange(min, max int) int
	Float64Range(min, max float64) float64
}

// isZero reports whether c is the Go zero value. A field absent from JSON
// and an explicit `0` both decode to this value and are not told apart.
func (c Coord) isZero() bool {
	return c.Min == 0 && c.Max == 0
}

// withDefault returns c, or def if c is the zero value (whether the field
// was absent from JSON or explicitly `0`).
func (c Coord) withDefault(def Coord) Coord {
	if c.isZero() {
		return def
	}
	return c
}

// stringList decodes a field that may be a single string or a list of
// strings, the shape spec.md's `om_terrain` takes when one mapgen template
// fills several overmap terrain ids.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = stringList{s}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("mapgen: invalid om_terrain value: %s", string(data))
	}
	*l = arr
	return nil
}

// mapSize decodes `mapgensize`: either `[width, height]` or `{"x":.., "y":..}`.
type mapSize struct {
	Width, Height int
	set           bool
}

func (s *mapSize) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err == nil {
		*s = mapSize{Width: pair[0], Height: pair[1], set: true}
		return nil
	}
	var obj struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*s = mapSize{Width: obj.X, Height: obj.Y, set: true}
		return nil
	}
	return fmt.Errorf("mapgen: invalid mapgensize value: %s", string(data))
}

// Location is a place-directive location constraint: a point (Min==Max on
// both axes), a rectangle (independent per-axis ranges), or a centered
// scatter radius, per spec.md §3's "point, rectangle, or radius".
type Location struct {
	X      Coord  `json:"x"`
	Y      Coord  `json:"y"`
	Radius *Coord `json:"radius,omitempty"`
}

// PlaceItems is one `place_items` directive.
type PlaceItems struct {
	Location
	Group  string `json:"item"`
	Repeat Coord  `json:"repeat"`
	Chance int    `json:"chance"`
}

// PlaceMonster is one `place_monsters` directive.
type PlaceMonster struct {
	Location
	Group  string `json:"monster"`
	Repeat Coord  `json:"repeat"`
	Chance int    `json:"chance"`
}

// PlaceVehicle is one `place_vehicles` directive.
type PlaceVehicle struct {
	Location
	ID     string `json:"vehicle"`
	Repeat Coord  `json:"repeat"`
	Chance int    `json:"chance"`
}

// PlaceTrap is one `place_traps` directive, naming a concrete trap store id
// (unlike monsters/vehicles/items, the trap id is resolved against
// pkg/trap's Store so the submap's sparse trap table is always populated
// with a real integer id).
type PlaceTrap struct {
	Location
	Trap   string `json:"trap"`
	Repeat Coord  `json:"repeat"`
}

// PlaceRubble is one `place_rubble` directive.
type PlaceRubble struct {
	Location
	Repeat Coord `json:"repeat"`
}

// PlaceGraffiti is one `place_graffiti` directive.
type PlaceGraffiti struct {
	Location
	Text string `json:"text"`
}

// PlaceNpc is one `place_npcs` directive.
type PlaceNpc struct {
	Location
	Class  string `json:"class"`
	Repeat Coord  `json:"repeat"`
}

// PlaceNested is one `place_nested` directive: an anchor location plus a
// nested-mapgen id or weighted pool of ids, reusing palette.Mapping since
// the JSON shapes are identical (plain string or `[[id,weight],...]`).
type PlaceNested struct {
	Location
	Chunk palette.Mapping `json:"chunk"`
}

// Template is the parsed form of a mapgen record: a character grid plus
// symbol tables plus place directives, per spec.md §3.
type Template struct {
	ID        string
	OMTerrain []string
	Method    string
	Weight    int

	Width, Height int
	Rows          []string
	FillTer       string

	Terrain   palette.Table
	Furniture palette.Table
	Items     palette.Table
	Nested    palette.Table
	Traps     palette.Table
	Palettes  []palette.Reference

	PlaceItems    []PlaceItems
	PlaceMonsters []PlaceMonster
	PlaceVehicles []PlaceVehicle
	PlaceNested   []PlaceNested
	PlaceTraps    []PlaceTrap
	PlaceRubble   []PlaceRubble
	PlaceGraffiti []PlaceGraffiti
	PlaceNpcs     []PlaceNpc

	Flags    []string
	Rotation int
	Mirror   string // "horizontal", "vertical", or ""
}

// HasFlag reports whether the template carries the named flag (e.g.
// `NO_UNDERLYING_ROTATE`).
func (t Template) HasFlag(flag string) bool {
	for _, f := range t.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// rawTemplate mirrors the flattened JSON object fields 1:1 and is decoded
// via content.Decode before being reshaped into a Template.
type rawTemplate struct {
	OMTerrain  stringList `json:"om_terrain"`
	Method     string     `json:"method"`
	Weight     int        `json:"weight"`
	MapgenSize *mapSize   `json:"mapgensize"`
	FillTer    string     `json:"fill_ter"`
	Rows       []string   `json:"rows"`

	Palettes  []palette.Reference `json:"palettes"`
	Terrain   palette.Table       `json:"terrain"`
	Furniture palette.Table       `json:"furniture"`
	Items     palette.Table       `json:"items"`
	Nested    palette.Table       `json:"nested"`
	Traps     palette.Table       `json:"traps"`

	PlaceItems    []PlaceItems    `json:"place_items"`
	PlaceMonsters []PlaceMonster  `json:"place_monsters"`
	PlaceVehicles []PlaceVehicle  `json:"place_vehicles"`
	PlaceNested   []PlaceNested   `json:"place_nested"`
	PlaceTraps    []PlaceTrap     `json:"place_traps"`
	PlaceRubble   []PlaceRubble   `json:"place_rubble"`
	PlaceGraffiti []PlaceGraffiti `json:"place_graffiti"`
	PlaceNpcs     []PlaceNpc      `json:"place_npcs"`

	Flags    []string `json:"flags"`
	Rotation int      `json:"rotation"`
	Mirror   string   `json:"mirror"`
}

func (raw rawTemplate) toTemplate(id string) Template {
	width, height := 0, 0
	if raw.MapgenSize != nil && raw.MapgenSize.set {
		width, height = raw.MapgenSize.Width, raw.MapgenSize.Height
	} else if len(raw.Rows) > 0 {
		height = len(raw.Rows)
		width = len([]rune(raw.Rows[0]))
	}
	return Template{
		ID:            id,
		OMTerrain:     []string(raw.OMTerrain),
		Method:        raw.Method,
		Weight:        raw.Weight,
		Width:         width,
		Height:        height,
		Rows:          raw.Rows,
		FillTer:       raw.FillTer,
		Terrain:       raw.Terrain,
		Furniture:     raw.Furniture,
		Items:         raw.Items,
		Nested:        raw.Nested,
		Traps:         raw.Traps,
		Palettes:      raw.Palettes,
		PlaceItems:    raw.PlaceItems,
		PlaceMonsters: raw.PlaceMonsters,
		PlaceVehicles: raw.PlaceVehicles,
		PlaceNested:   raw.PlaceNested,
		PlaceTraps:    raw.PlaceTraps,
		PlaceRubble:   raw.PlaceRubble,
		PlaceGraffiti: raw.PlaceGraffiti,
		PlaceNpcs:     raw.PlaceNpcs,
		Flags:         raw.Flags,
		Rotation:      raw.Rotation,
		Mirror:        raw.Mirror,
	}
}

// Load parses raw mapgen JSON records, resolves copy-from inheritance, and
// returns a built Store of Templates. Mapgen records nest most fields under
// an `object` key and may be identified by `om_terrain` instead of `id`
// (spec.md §6); flattenObjects normalizes both before handing the array to
// the same two-pass engine pkg/content's other loaders use, rather than
// forking a second inheritance resolver for one record shape.
func Load(data []byte, log *diagnostics.Log) (*content.Store[Template], error) {
	flattened, err := flattenObjects(data)
	if err != nil {
		return nil, fmt.Errorf("mapgen: %w", err)
	}

	records, err := content.ParseRecords(flattened, RecordType, log)
	if err != nil {
		return nil, fmt.Errorf("mapgen: %w", err)
	}

	store := content.NewStore[Template]()
	merged := content.ResolveInheritance(records, log)
	for id, fields := range merged {
		var raw rawTemplate
		if err := content.Decode(fields, &raw); err != nil {
			log.Recordf(diagnostics.ParseError, "mapgen %q: %v", id, err)
			continue
		}
		tmpl := raw.toTemplate(id)
		if err := validateTemplate(tmpl); err != nil {
			log.Recordf(diagnostics.TemplateBoundsError, "mapgen %q: %v", id, err)
			continue
		}
		store.Add(id, tmpl)
	}
	store.Freeze()
	return store, nil
}

// validateTemplate enforces spec.md §3's parsed-mapgen invariants: rows
// agree with width/height, and both are positive multiples of 12.
func validateTemplate(t Template) error {
	if len(t.Rows) == 0 {
		return nil // rows absent: generates a uniform fill_ter submap, no shape to validate
	}
	if len(t.Rows) != t.Height {
		return fmt.Errorf("rows length %d != height %d", len(t.Rows), t.Height)
	}
	if t.Width <= 0 || t.Height <= 0 || t.Width%submap.Size != 0 || t.Height%submap.Size != 0 {
		return fmt.Errorf("width=%d height=%d must be positive multiples of %d", t.Width, t.Height, submap.Size)
	}
	for i, row := range t.Rows {
		if len([]rune(row)) != t.Width {
			return fmt.Errorf("row %d length %d != width %d", i, len([]rune(row)), t.Width)
		}
	}
	return nil
}

// flattenObjects rewrites a raw mapgen JSON array so every record's
// `object`-nested fields sit at the top level, and so an `om_terrain`-only
// record gets a synthesized `id`, letting content.ParseRecords/
// ResolveInheritance treat mapgen records exactly like every other content
// type.
func flattenObjects(data []byte) ([]byte, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing record array: %w", err)
	}

	out := make([]map[string]json.RawMessage, 0, len(raw))
	for _, obj := range raw {
		flat := make(map[string]json.RawMessage, len(obj))
		for k, v := range obj {
			flat[k] = v
		}

		if objRaw, ok := flat["object"]; ok {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(objRaw, &nested); err == nil {
				for k, v := range nested {
					if _, exists := flat[k]; !exists {
						flat[k] = v
					}
				}
			}
			delete(flat, "object")
		}

		if _, hasID := flat["id"]; !hasID {
			if omRaw, ok := flat["om_terrain"]; ok {
				if idBytes, ok := firstIDFromOMTerrain(omRaw); ok {
					flat["id"] = idBytes
				}
			}
		}

		out = append(out, flat)
	}
	return json.Marshal(out)
}

func firstIDFromOMTerrain(raw json.RawMessage) (json.RawMessage, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		b, _ := json.Marshal(s)
		return b, true
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		b, _ := json.Marshal(list[0])
		return b, true
	}
	return nil, false
}
