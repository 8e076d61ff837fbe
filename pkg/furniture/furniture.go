// Package furniture loads and stores furniture definitions: objects that sit
// on top of a terrain cell (chairs, tables, rubble piles, counters).
// Furniture id 0 is reserved for the null/missing furniture.
package furniture

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

// RecordType is the `type` discriminator this loader matches against.
const RecordType = "furniture"

// NullID is the reserved string id for "no furniture".
const NullID = "f_null"

// Def is a flat furniture record.
type Def struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Color       string   `json:"color"`
	MoveCost    int      `json:"move_cost"`
	Visibility  int      `json:"visibility"`
	Flags       []string `json:"flags"`
	Blocking    bool     `json:"blocking"`
	CraftingTag string   `json:"crafting_tag"`
}

// HasFlag reports whether the furniture carries the named flag.
func (d Def) HasFlag(flag string) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Load parses raw JSON bytes, resolves copy-from inheritance, and returns a
// built Store. The null furniture is always present and always assigned
// integer id 0.
func Load(data []byte, log *diagnostics.Log) (*content.Store[Def], error) {
	records, err := content.ParseRecords(data, RecordType, log)
	if err != nil {
		return nil, fmt.Errorf("furniture: %w", err)
	}

	store := content.NewStore[Def]()
	store.Add(NullID, Def{ID: NullID, Name: "nothing"})

	merged := content.ResolveInheritance(records, log)
	for id, fields := range merged {
		var def Def
		if err := content.Decode(fields, &def); err != nil {
			log.Recordf(diagnostics.ParseError, "furniture %q: %v", id, err)
			continue
		}
		def.ID = id
		if def.Name == "" {
			log.Recordf(diagnostics.ParseError, "furniture %q: missing required field name", id)
			continue
		}
		store.Add(id, def)
	}
	store.Freeze()
	return store, nil
}
