// Package trap loads and stores trap definitions: hidden or visible hazards
// placed on a cell (pits, tripwires, landmines). Trap id 0 is reserved for
// the null/missing trap.
package trap

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

// RecordType is the `type` discriminator this loader matches against.
const RecordType = "trap"

// NullID is the reserved string id for "no trap".
const NullID = "tr_null"

// Def is a flat trap record. TriggerWeight is the relative likelihood the
// trap fires when stepped on (0 means never, used for always-visible
// decorative traps). ActionTag names the opaque effect this engine
// delegates to an external collaborator (per spec.md, trap/item/monster
// effects are treated as opaque at the mapgen-core level).
type Def struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Symbol        string   `json:"symbol"`
	Color         string   `json:"color"`
	Visibility    int      `json:"visibility"`
	Flags         []string `json:"flags"`
	TriggerWeight int      `json:"trigger_weight"`
	ActionTag     string   `json:"action_tag"`
}

// HasFlag reports whether the trap carries the named flag.
func (d Def) HasFlag(flag string) bool {
	for _, f := range d.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Load parses raw JSON bytes, resolves copy-from inheritance, and returns a
// built Store. The null trap is always present and always assigned integer
// id 0.
func Load(data []byte, log *diagnostics.Log) (*content.Store[Def], error) {
	records, err := content.ParseRecords(data, RecordType, log)
	if err != nil {
		return nil, fmt.Errorf("trap: %w", err)
	}

	store := content.NewStore[Def]()
	store.Add(NullID, Def{ID: NullID, Name: "nothing"})

	merged := content.ResolveInheritance(records, log)
	for id, fields := range merged {
		var def Def
		if err := content.Decode(fields, &def); err != nil {
			log.Recordf(diagnostics.ParseError, "trap %q: %v", id, err)
			continue
		}
		def.ID = id
		if def.Name == "" {
			log.Recordf(diagnostics.ParseError, "trap %q: missing required field name", id)
			continue
		}
		if def.TriggerWeight < 0 {
			log.Recordf(diagnostics.ParseError, "trap %q: trigger_weight must be >= 0", id)
			continue
		}
		store.Add(id, def)
	}
	store.Freeze()
	return store, nil
}
