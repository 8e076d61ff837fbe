package palette

import (
	"encoding/json"
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

// RecordType is the `type` discriminator this loader matches against.
const RecordType = "palette"

// Table is a character -> Mapping symbol table, one of the five a palette or
// mapgen carries (terrain, furniture, items, nested, traps). The key is the literal
// one-character string appearing in a mapgen's `rows`.
type Table map[string]Mapping

// Tables bundles the symbol tables a palette and a mapgen both carry, so the
// merge algorithm can treat them uniformly. Traps is carried alongside the
// four spec-named tables (terrain, furniture, items, nested): spec.md
// §4.3's per-cell resolution treats traps analogously to terrain and
// furniture, so a trap symbol table is merged the same way even though the
// §6 palette record schema does not separately enumerate it.
type Tables struct {
	Terrain   Table
	Furniture Table
	Items     Table
	Nested    Table
	Traps     Table
}

// Clone returns a deep-enough copy suitable for the resolver's accumulator:
// the mapgen's own tables must never be mutated by Resolve.
func (t Tables) Clone() Tables {
	return Tables{
		Terrain:   cloneTable(t.Terrain),
		Furniture: cloneTable(t.Furniture),
		Items:     cloneTable(t.Items),
		Nested:    cloneTable(t.Nested),
		Traps:     cloneTable(t.Traps),
	}
}

func cloneTable(t Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Reference is a palette reference in a mapgen's or palette's `palettes`
// list: either a plain palette id or a `{param: NAME}` indirection resolved
// at merge time.
type Reference struct {
	ID    string
	Param string
}

// UnmarshalJSON accepts a plain string id or a `{param: NAME}` object.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Reference{ID: s}
		return nil
	}
	var obj struct {
		Param string `json:"param"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Param != "" {
		*r = Reference{Param: obj.Param}
		return nil
	}
	return fmt.Errorf("palette: unrecognized palette reference: %s", string(data))
}

// ParamDef is a palette-declared parameter: its default is either a literal
// id or a weighted distribution, modeled with the same Mapping sum type
// (Kind must be Single or Weighted; Param is rejected at load time).
type ParamDef struct {
	Default Mapping `json:"default"`
}

// Palette is the same five symbol tables as a mapgen, plus nested palette
// references and parameter declarations.
type Palette struct {
	ID         string              `json:"id"`
	Terrain    Table               `json:"terrain"`
	Furniture  Table               `json:"furniture"`
	Items      Table               `json:"items"`
	Nested     Table               `json:"nested"`
	Traps      Table               `json:"traps"`
	Palettes   []Reference         `json:"palettes"`
	Parameters map[string]ParamDef `json:"parameters"`
}

// Load parses raw JSON bytes and returns a built Store of palettes. Unlike
// terrain/furniture/trap, palettes carry no copy-from inheritance in
// practice (spec.md does not describe palette copy-from), so records are
// decoded directly without the two-pass resolver.
func Load(data []byte, log *diagnostics.Log) (*content.Store[Palette], error) {
	records, err := content.ParseRecords(data, RecordType, log)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	store := content.NewStore[Palette]()
	for _, rec := range records {
		if rec.IsAbstract() {
			continue
		}
		var pal Palette
		if err := content.Decode(rec.Fields, &pal); err != nil {
			log.Recordf(diagnostics.ParseError, "palette %q: %v", rec.ID, err)
			continue
		}
		pal.ID = rec.ID
		for name, def := range pal.Parameters {
			if def.Default.Kind == Param {
				log.Recordf(diagnostics.ParseError, "palette %q: parameter %q default cannot itself be a param reference", rec.ID, name)
				delete(pal.Parameters, name)
			}
		}
		store.Add(rec.ID, pal)
	}
	store.Freeze()
	return store, nil
}
