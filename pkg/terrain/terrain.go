// Package terrain loads and stores terrain definitions: the base layer of
// every map cell (floors, walls, water, rubble). Terrain id 0 is reserved
// for the null/missing terrain and is always present in a built Store.
package terrain

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

// RecordType is the `type` discriminator this loader matches against.
const RecordType = "terrain"

// NullID is the reserved string id for the null/missing terrain. It is
// always assigned dense integer id 0 by Load.
const NullID = "t_null"

// Def is a flat terrain record.
type Def struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol"`
	Color      string   `json:"color"`
	MoveCost   int      `json:"move_cost"`
	Visibility int      `json:"visibility"`
	Flags      []string `json:"flags"`
}

// HasFlag reports whether the terrain carries the named flag.
func (d Def) HasFlag(flag string) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Load parses raw JSON bytes, resolves copy-from inheritance, and returns a
// built Store. The null terrain is always present and always assigned
// integer id 0, even if the input data doesn't declare it explicitly.
func Load(data []byte, log *diagnostics.Log) (*content.Store[Def], error) {
	records, err := content.ParseRecords(data, RecordType, log)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	store := content.NewStore[Def]()
	store.Add(NullID, Def{ID: NullID, Name: "nothing", MoveCost: 0, Visibility: 0})

	merged := content.ResolveInheritance(records, log)
	for id, fields := range merged {
		var def Def
		if err := content.Decode(fields, &def); err != nil {
			log.Recordf(diagnostics.ParseError, "terrain %q: %v", id, err)
			continue
		}
		def.ID = id
		if err := validate(def); err != nil {
			log.Recordf(diagnostics.ParseError, "terrain %q: %v", id, err)
			continue
		}
		store.Add(id, def)
	}
	store.Freeze()
	return store, nil
}

func validate(d Def) error {
	if d.Name == "" {
		return fmt.Errorf("missing required field name")
	}
	if d.MoveCost < 0 {
		return fmt.Errorf("move_cost must be >= 0, got %d", d.MoveCost)
	}
	return nil
}
