package content

import (
	"encoding/json"
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

// RawRecord is one parsed-but-not-yet-decoded JSON content record.
// Fields holds every field except the inheritance control fields
// (type, id, abstract, copy-from/copy_from, extend, delete), keyed by name,
// as raw JSON so a type-specific decoder can unmarshal into a concrete Go
// struct after inheritance resolution.
type RawRecord struct {
	Type     string
	ID       string // empty for abstract-only records
	Abstract string // empty for concrete records
	CopyFrom string
	Extend   map[string]json.RawMessage
	Delete   map[string]json.RawMessage
	Fields   map[string]json.RawMessage
}

// Key returns the identifier a record is indexed by: ID for concrete
// records, Abstract for templates.
func (r RawRecord) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Abstract
}

// IsAbstract reports whether the record is a copy-from template only,
// never materialized as a concrete entity.
func (r RawRecord) IsAbstract() bool {
	return r.ID == "" && r.Abstract != ""
}

var controlFields = map[string]bool{
	"type": true, "id": true, "abstract": true,
	"copy-from": true, "copy_from": true,
	"extend": true, "delete": true,
}

// ParseRecords parses a JSON array of objects into RawRecords, skipping any
// record whose declared type is not wantType. Malformed top-level JSON is a
// hard error (the caller has nothing to load); a malformed individual
// record is skipped with a ParseError diagnostic and loading continues.
func ParseRecords(data []byte, wantType string, log *diagnostics.Log) ([]RawRecord, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("content: parsing record array: %w", err)
	}

	records := make([]RawRecord, 0, len(raw))
	for i, obj := range raw {
		rec, ok, err := decodeRawRecord(obj, wantType)
		if err != nil {
			log.Recordf(diagnostics.ParseError, "record[%d]: %v", i, err)
			continue
		}
		if !ok {
			continue // different type, not an error
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRawRecord(obj map[string]json.RawMessage, wantType string) (RawRecord, bool, error) {
	var typ string
	if raw, ok := obj["type"]; ok {
		if err := json.Unmarshal(raw, &typ); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid type field: %w", err)
		}
	}
	if typ != wantType {
		return RawRecord{}, false, nil
	}

	rec := RawRecord{
		Type:   typ,
		Fields: make(map[string]json.RawMessage),
	}

	if raw, ok := obj["id"]; ok {
		if err := json.Unmarshal(raw, &rec.ID); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid id field: %w", err)
		}
	}
	if raw, ok := obj["abstract"]; ok {
		if err := json.Unmarshal(raw, &rec.Abstract); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid abstract field: %w", err)
		}
	}
	if raw, ok := obj["copy-from"]; ok {
		if err := json.Unmarshal(raw, &rec.CopyFrom); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid copy-from field: %w", err)
		}
	} else if raw, ok := obj["copy_from"]; ok {
		if err := json.Unmarshal(raw, &rec.CopyFrom); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid copy_from field: %w", err)
		}
	}
	if raw, ok := obj["extend"]; ok {
		var ext map[string]json.RawMessage
		if err := json.Unmarshal(raw, &ext); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid extend field: %w", err)
		}
		rec.Extend = ext
	}
	if raw, ok := obj["delete"]; ok {
		var del map[string]json.RawMessage
		if err := json.Unmarshal(raw, &del); err != nil {
			return RawRecord{}, false, fmt.Errorf("invalid delete field: %w", err)
		}
		rec.Delete = del
	}

	if rec.ID == "" && rec.Abstract == "" {
		return RawRecord{}, false, fmt.Errorf("record has neither id nor abstract")
	}

	for k, v := range obj {
		if controlFields[k] {
			continue
		}
		rec.Fields[k] = v
	}

	return rec, true, nil
}

// ResolveInheritance resolves copy-from inheritance across records of one
// type and returns the merged field sets for every concrete (non-abstract)
// record, keyed by string id. Cyclic and missing-parent references are
// recorded in log and resolved as if the offending copy-from were absent
// (spec §4.1 errors: MissingParent falls back to defaults, CyclicInheritance
// is treated as parentless).
func ResolveInheritance(records []RawRecord, log *diagnostics.Log) map[string]map[string]json.RawMessage {
	byKey := make(map[string]RawRecord, len(records))
	for _, r := range records {
		byKey[r.Key()] = r
	}

	memo := make(map[string]map[string]json.RawMessage, len(records))
	resolving := make(map[string]bool)

	var resolve func(key string) map[string]json.RawMessage
	resolve = func(key string) map[string]json.RawMessage {
		if m, ok := memo[key]; ok {
			return m
		}
		rec, ok := byKey[key]
		if !ok {
			log.Recordf(diagnostics.MissingReference, "copy-from parent %q not found", key)
			return map[string]json.RawMessage{}
		}

		merged := map[string]json.RawMessage{}
		if rec.CopyFrom != "" {
			if resolving[key] {
				log.Recordf(diagnostics.CyclicReference, "cyclic copy-from at %q", key)
			} else {
				resolving[key] = true
				parent := resolve(rec.CopyFrom)
				resolving[key] = false
				for k, v := range parent {
					merged[k] = v
				}
			}
		}

		// extend: union arrays, de-duplicated, preserving first-seen order.
		for field, addRaw := range rec.Extend {
			merged[field] = unionArrays(merged[field], addRaw)
		}

		// delete: drop named entries from the accumulated array field.
		for field, delRaw := range rec.Delete {
			if cur, ok := merged[field]; ok {
				merged[field] = removeArrayEntries(cur, delRaw)
			}
		}

		// child's own non-control fields override the parent's.
		for k, v := range rec.Fields {
			merged[k] = v
		}

		memo[key] = merged
		return merged
	}

	out := make(map[string]map[string]json.RawMessage)
	for _, r := range records {
		if r.IsAbstract() {
			continue
		}
		out[r.ID] = resolve(r.Key())
	}
	return out
}

// unionArrays merges two JSON array fields, de-duplicating by encoded form
// and preserving first-seen order (existing entries first, then additions).
func unionArrays(existing json.RawMessage, add json.RawMessage) json.RawMessage {
	var existingItems, addItems []json.RawMessage
	if existing != nil {
		_ = json.Unmarshal(existing, &existingItems)
	}
	_ = json.Unmarshal(add, &addItems)

	seen := make(map[string]bool, len(existingItems)+len(addItems))
	merged := make([]json.RawMessage, 0, len(existingItems)+len(addItems))
	for _, item := range existingItems {
		key := string(item)
		if !seen[key] {
			seen[key] = true
			merged = append(merged, item)
		}
	}
	for _, item := range addItems {
		key := string(item)
		if !seen[key] {
			seen[key] = true
			merged = append(merged, item)
		}
	}

	out, _ := json.Marshal(merged)
	return out
}

// removeArrayEntries drops entries from an existing array field that appear
// (by encoded form) in the delete list.
func removeArrayEntries(existing json.RawMessage, del json.RawMessage) json.RawMessage {
	var existingItems, delItems []json.RawMessage
	_ = json.Unmarshal(existing, &existingItems)
	_ = json.Unmarshal(del, &delItems)

	toRemove := make(map[string]bool, len(delItems))
	for _, item := range delItems {
		toRemove[string(item)] = true
	}

	kept := make([]json.RawMessage, 0, len(existingItems))
	for _, item := range existingItems {
		if !toRemove[string(item)] {
			kept = append(kept, item)
		}
	}

	out, _ := json.Marshal(kept)
	return out
}

// Decode unmarshals a merged field set into dst (a pointer to a concrete
// content struct). Fields absent from merged are left at their zero value
// in dst so that a caller-supplied defaulter can fill them in afterward.
func Decode(merged map[string]json.RawMessage, dst any) error {
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("content: re-marshaling merged fields: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("content: decoding into %T: %w", dst, err)
	}
	return nil
}
