package validate

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/furniture"
	"github.com/ashfall-game/mapgen/pkg/graph"
	"github.com/ashfall-game/mapgen/pkg/overmap"
	"github.com/ashfall-game/mapgen/pkg/submap"
	"github.com/ashfall-game/mapgen/pkg/terrain"
)

// CheckTerrainIDsResolved walks every cell of sm and verifies its terrain
// and furniture integer ids are present in their respective stores — a
// post-hoc check that generation never wrote an id the content stores
// don't recognize. This is a hard constraint: an unresolved id means
// export/rendering downstream has nothing to look up.
func CheckTerrainIDsResolved(sm *submap.Submap, terrainStore *content.Store[terrain.Def], furnitureStore *content.Store[furniture.Def]) ConstraintResult {
	for y := 0; y < submap.Size; y++ {
		for x := 0; x < submap.Size; x++ {
			tile := sm.GetTile(x, y)
			if _, ok := terrainStore.GetByIntID(tile.Terrain); !ok {
				return newHardResult("TerrainIDsResolved", "submap.cells[*].terrain in terrainStore",
					false, fmt.Sprintf("cell (%d,%d) has unresolved terrain id %d", x, y, tile.Terrain))
			}
			if tile.Furniture != 0 {
				if _, ok := furnitureStore.GetByIntID(tile.Furniture); !ok {
					return newHardResult("TerrainIDsResolved", "submap.cells[*].furniture in furnitureStore",
						false, fmt.Sprintf("cell (%d,%d) has unresolved furniture id %d", x, y, tile.Furniture))
				}
			}
		}
	}
	return newHardResult("TerrainIDsResolved", "submap.cells[*].terrain/furniture in stores",
		true, "every cell resolves to a known terrain and furniture id")
}

// CheckUniformXorExpanded re-asserts the tile store's core invariant
// externally: a submap reporting itself uniform must answer
// UniformTerrain with ok=true and vice versa. The Submap type enforces
// this by construction (spec.md §8's "after any sequence of writes, the
// uniform-XOR-expanded invariant holds"), so this check exists to catch a
// future regression in that invariant from the validation layer, not
// because it is currently reachable.
func CheckUniformXorExpanded(sm *submap.Submap) ConstraintResult {
	_, ok := sm.UniformTerrain()
	if sm.IsUniform() != ok {
		return newHardResult("UniformXorExpanded", "sm.IsUniform() == (uniformTerrain, ok).ok",
			false, "IsUniform and UniformTerrain disagree")
	}
	return newHardResult("UniformXorExpanded", "sm.IsUniform() == (uniformTerrain, ok).ok",
		true, "uniform/expanded forms agree")
}

// CheckRoadConnectivity verifies g (a city/road graph built by
// overmap.BuildRoadGraph) connects every city to every other, reusing
// graph.Graph.IsConnected.
func CheckRoadConnectivity(g *graph.Graph) ConstraintResult {
	if len(g.Rooms) == 0 {
		return newHardResult("RoadConnectivity", "graph.isConnected()", true, "no cities placed")
	}
	connected := g.IsConnected()
	details := "every city reaches every other by road"
	if !connected {
		details = "road graph is disconnected: at least one city cannot reach another"
	}
	return newHardResult("RoadConnectivity", "graph.isConnected()", connected, details)
}

// CheckCityMinSpacing is a soft constraint scoring how well a placed city
// layout honors its configured minimum spacing: 1.0 if every pair of
// cities meets or exceeds minSpacing, degrading toward 0 with the worst
// violation observed.
func CheckCityMinSpacing(cities []overmap.City, minSpacing int) ConstraintResult {
	if len(cities) < 2 {
		return newSoftResult("CityMinSpacing", "min(pairwise city distance) >= minSpacing", 1.0, "fewer than two cities placed")
	}
	worstRatio := 1.0
	for i, a := range cities {
		for j, b := range cities {
			if i >= j {
				continue
			}
			dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
			dist := dx*dx + dy*dy
			ratio := dist / float64(minSpacing*minSpacing)
			if ratio < worstRatio {
				worstRatio = ratio
			}
		}
	}
	if worstRatio > 1.0 {
		worstRatio = 1.0
	}
	if worstRatio < 0 {
		worstRatio = 0
	}
	return newSoftResult("CityMinSpacing", "min(pairwise city distance) >= minSpacing", worstRatio,
		fmt.Sprintf("closest city pair is at %.0f%% of the configured minimum spacing", worstRatio*100))
}

// CheckGameMapSlotOccupancy is a soft constraint reporting how full a
// GameMap's live window is, useful as a sanity signal that a generation
// session actually populated the grid it claims to own.
func CheckGameMapSlotOccupancy(occupied, total int) ConstraintResult {
	if total == 0 {
		return newSoftResult("GameMapSlotOccupancy", "occupied / total", 0, "grid has no slots")
	}
	ratio := float64(occupied) / float64(total)
	return newSoftResult("GameMapSlotOccupancy", "occupied / total", ratio,
		fmt.Sprintf("%d/%d slots occupied", occupied, total))
}
