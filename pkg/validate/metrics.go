package validate

import "github.com/ashfall-game/mapgen/pkg/submap"

// ExpandedRatio returns the fraction of submaps in sms that are expanded
// (not uniform) after optimization — a rough density signal: a mapgen
// producing mostly-uniform submaps (large fields of one terrain) should
// show a low ratio, a detailed interior a high one.
func ExpandedRatio(sms []*submap.Submap) float64 {
	if len(sms) == 0 {
		return 0
	}
	expanded := 0
	for _, sm := range sms {
		if !sm.IsUniform() {
			expanded++
		}
	}
	return float64(expanded) / float64(len(sms))
}

// SpawnCount totals the spawn points carried by every submap in sms.
func SpawnCount(sms []*submap.Submap) int {
	total := 0
	for _, sm := range sms {
		total += len(sm.Spawns())
	}
	return total
}

// FieldDensity returns the average FieldCount across sms, a rough measure
// of how field-heavy (gas, fire, liquid) a generated region turned out.
func FieldDensity(sms []*submap.Submap) float64 {
	if len(sms) == 0 {
		return 0
	}
	total := 0
	for _, sm := range sms {
		total += sm.FieldCount()
	}
	return float64(total) / float64(len(sms))
}
