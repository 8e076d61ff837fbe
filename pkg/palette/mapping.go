// Package palette implements the symbol-table merge described by a mapgen's
// palette references: reusable character -> mapping tables that compose
// recursively, with strict first-writer-wins precedence and an immutable
// core contributed by the mapgen itself.
package palette

import (
	"encoding/json"
	"fmt"
)

// Kind tags which of the three shapes a Mapping value takes in JSON:
// a single id, a weighted distribution, or a parameter reference.
type Kind int

const (
	Single Kind = iota
	Weighted
	Param
)

// WeightedID is one (id, weight) entry of a weighted distribution.
type WeightedID struct {
	ID     string
	Weight int
}

// Mapping is the sum type `Mapping = Single(id) | Weighted([(id,weight)]) |
// Param(name)` called for in spec's design notes: a character's table entry
// is polymorphic JSON and this is the tagged variant it decodes to.
type Mapping struct {
	Kind     Kind
	SingleID string
	Weighted []WeightedID
	ParamRef string
}

// UnmarshalJSON accepts a plain string id, a `{param: NAME}` object, or a
// weighted distribution `[[id, weight], ...]`.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = Mapping{Kind: Single, SingleID: s}
		return nil
	}

	var paramObj struct {
		Param string `json:"param"`
	}
	if err := json.Unmarshal(data, &paramObj); err == nil && paramObj.Param != "" {
		*m = Mapping{Kind: Param, ParamRef: paramObj.Param}
		return nil
	}

	// Parameter defaults wrap their distribution: {"distribution": [[id,weight],...]}.
	var distObj struct {
		Distribution []json.RawMessage `json:"distribution"`
	}
	if err := json.Unmarshal(data, &distObj); err == nil && distObj.Distribution != nil {
		return unmarshalWeighted(distObj.Distribution, m)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		return unmarshalWeighted(raw, m)
	}

	return fmt.Errorf("palette: unrecognized mapping value: %s", string(data))
}

func unmarshalWeighted(raw []json.RawMessage, m *Mapping) error {
	weighted := make([]WeightedID, 0, len(raw))
	for _, item := range raw {
		var pair []json.RawMessage
		if err := json.Unmarshal(item, &pair); err != nil || len(pair) != 2 {
			return fmt.Errorf("palette: invalid weighted distribution entry %s", string(item))
		}
		var id string
		var weight int
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return fmt.Errorf("palette: weighted entry id: %w", err)
		}
		if err := json.Unmarshal(pair[1], &weight); err != nil {
			return fmt.Errorf("palette: weighted entry weight: %w", err)
		}
		weighted = append(weighted, WeightedID{ID: id, Weight: weight})
	}
	if len(weighted) == 0 {
		return fmt.Errorf("palette: weighted distribution requires at least one entry")
	}
	*m = Mapping{Kind: Weighted, Weighted: weighted}
	return nil
}

// MarshalJSON round-trips a Mapping back to its original JSON shape.
func (m Mapping) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case Single:
		return json.Marshal(m.SingleID)
	case Param:
		return json.Marshal(struct {
			Param string `json:"param"`
		}{m.ParamRef})
	case Weighted:
		pairs := make([][2]any, len(m.Weighted))
		for i, w := range m.Weighted {
			pairs[i] = [2]any{w.ID, w.Weight}
		}
		return json.Marshal(pairs)
	default:
		return nil, fmt.Errorf("palette: unknown mapping kind %d", m.Kind)
	}
}
