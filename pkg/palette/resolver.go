package palette

import (
	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/rng"
)

// ResolverConfig carries the inputs spec §4.2 names beyond the mapgen and
// palette store themselves.
type ResolverConfig struct {
	ParameterOverrides map[string]string
	Debug              bool
}

// Resolver merges a mapgen's five symbol tables with those of its
// transitively referenced palettes, with the mapgen's own entries immutable
// and first-writer-wins precedence among palettes in reference order.
type Resolver struct {
	Store *content.Store[Palette]
}

// NewResolver builds a resolver over a populated palette store.
func NewResolver(store *content.Store[Palette]) *Resolver {
	return &Resolver{Store: store}
}

// Resolve merges ownTables (a mapgen's directly-declared tables) with the
// palettes named in refs, returning a new Tables value; ownTables is never
// mutated. r is the seedable RNG driving any weighted parameter selection
// along the way (spec: "deterministic selection requires that the same
// (seed, parameter space, draw order) yield the same ids").
func (pr *Resolver) Resolve(ownTables Tables, refs []Reference, cfg ResolverConfig, r *rng.RNG, log *diagnostics.Log) Tables {
	immutable := captureKeys(ownTables)
	acc := ownTables.Clone()

	ids := pr.resolveReferenceList(refs, nil, cfg, r, log)
	visited := make(map[string]bool)
	for _, id := range ids {
		pr.mergeFrom(&acc, immutable, id, cfg, r, log, visited)
	}
	return acc
}

type keySets struct {
	terrain, furniture, items, nested, traps map[string]bool
}

func captureKeys(t Tables) keySets {
	mk := func(table Table) map[string]bool {
		out := make(map[string]bool, len(table))
		for k := range table {
			out[k] = true
		}
		return out
	}
	return keySets{
		terrain:   mk(t.Terrain),
		furniture: mk(t.Furniture),
		items:     mk(t.Items),
		nested:    mk(t.Nested),
		traps:     mk(t.Traps),
	}
}

// mergeFrom merges the palette named paletteID's own five tables into acc
// before recursing into its nested palette list, so the outer palette's own
// entries lock in first-writer-wins and a nested palette can only fill gaps
// the outer palette left open, per spec's "the outer palette wins over the
// inner". visited is a path-local cycle guard cleared on return, per spec's
// "a palette may appear along distinct paths without being flagged cyclic".
func (pr *Resolver) mergeFrom(acc *Tables, immutable keySets, paletteID string, cfg ResolverConfig, r *rng.RNG, log *diagnostics.Log, visited map[string]bool) {
	if visited[paletteID] {
		log.Recordf(diagnostics.CyclicReference, "palette %q", paletteID)
		return
	}
	pal, ok := pr.Store.Get(paletteID)
	if !ok {
		log.Recordf(diagnostics.MissingReference, "palette %q", paletteID)
		return
	}

	visited[paletteID] = true
	defer delete(visited, paletteID)

	mergeTable(acc.Terrain, immutable.terrain, pal.Terrain)
	mergeTable(acc.Furniture, immutable.furniture, pal.Furniture)
	mergeTable(acc.Items, immutable.items, pal.Items)
	mergeTable(acc.Nested, immutable.nested, pal.Nested)
	mergeTable(acc.Traps, immutable.traps, pal.Traps)

	nestedIDs := pr.resolveReferenceList(pal.Palettes, pal.Parameters, cfg, r, log)
	for _, nid := range nestedIDs {
		pr.mergeFrom(acc, immutable, nid, cfg, r, log, visited)
	}
}

func mergeTable(acc Table, immutable map[string]bool, incoming Table) {
	for ch, m := range incoming {
		if immutable[ch] {
			continue
		}
		if _, exists := acc[ch]; exists {
			continue
		}
		acc[ch] = m
	}
}

// resolveReferenceList reduces a palette reference list to a concrete
// ordered sequence of palette ids, resolving `{param: NAME}` entries against
// cfg.ParameterOverrides first, then localParams (the declaring palette's
// own parameter block, when merging a nested palette's reference list).
func (pr *Resolver) resolveReferenceList(refs []Reference, localParams map[string]ParamDef, cfg ResolverConfig, r *rng.RNG, log *diagnostics.Log) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			ids = append(ids, ref.ID)
			continue
		}

		id, ok := pr.resolveParam(ref.Param, localParams, cfg, r, log)
		if !ok {
			log.Recordf(diagnostics.MissingReference, "palette parameter %q", ref.Param)
			continue
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (pr *Resolver) resolveParam(name string, localParams map[string]ParamDef, cfg ResolverConfig, r *rng.RNG, log *diagnostics.Log) (string, bool) {
	if override, ok := cfg.ParameterOverrides[name]; ok {
		return override, true
	}
	if def, ok := localParams[name]; ok {
		return SelectMapping(def.Default, r, log), true
	}
	// Fall back to the union of parameter definitions across every loaded
	// palette, first match in store insertion order.
	for i := 0; i < pr.Store.Len(); i++ {
		pal, ok := pr.Store.GetByIntID(i)
		if !ok {
			continue
		}
		if def, ok := pal.Parameters[name]; ok {
			return SelectMapping(def.Default, r, log), true
		}
	}
	return "", false
}

// SelectMapping reduces a Mapping to a single concrete id: a Single value
// passes through, a Weighted value draws via the RNG, and a Param value is
// rejected with a ParseError and an empty id (a palette parameter's default
// may not itself be a parameter reference).
func SelectMapping(m Mapping, r *rng.RNG, log *diagnostics.Log) string {
	switch m.Kind {
	case Single:
		return m.SingleID
	case Weighted:
		return selectWeighted(m.Weighted, r, log)
	default:
		log.Recordf(diagnostics.ParseError, "parameter default cannot be a nested param reference")
		return ""
	}
}

func selectWeighted(entries []WeightedID, r *rng.RNG, log *diagnostics.Log) string {
	if len(entries) == 0 {
		return ""
	}
	weights := make([]float64, len(entries))
	total := 0
	for i, e := range entries {
		weights[i] = float64(e.Weight)
		total += e.Weight
	}
	if total <= 0 {
		log.Recordf(diagnostics.ParseError, "weighted distribution has non-positive total weight")
		return entries[0].ID
	}
	idx := r.WeightedChoice(weights)
	if idx < 0 {
		return entries[0].ID
	}
	return entries[idx].ID
}
