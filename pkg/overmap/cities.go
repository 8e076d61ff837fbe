package overmap

import (
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/graph"
	"github.com/ashfall-game/mapgen/pkg/rng"
)

// CityConfig parameterizes the placement pass: how many cities to try to
// place, the minimum center-to-center spacing to enforce, the range of
// city sizes (in OMT cells), and how many rejection-sampling attempts to
// spend per city before giving up on it.
type CityConfig struct {
	Count       int
	MinSpacing  int
	MinSize     int
	MaxSize     int
	MaxAttempts int
}

// DefaultCityConfig returns reasonable defaults for a single overmap.
func DefaultCityConfig() CityConfig {
	return CityConfig{
		Count:       3,
		MinSpacing:  40,
		MinSize:     4,
		MaxSize:     12,
		MaxAttempts: 200,
	}
}

// PlaceCities rejection-samples up to cfg.Count city centers onto the
// overmap, each at least cfg.MinSpacing cells from every previously placed
// city. Candidates that violate the spacing are rejected and redrawn, since
// cities have no pairwise attraction, only a minimum-distance constraint.
// Placement stops at the first city that finds no valid spot within
// cfg.MaxAttempts draws.
func PlaceCities(om *Overmap, cfg CityConfig, r *rng.RNG) []City {
	var cities []City
	for i := 0; i < cfg.Count; i++ {
		placed := false
		for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
			x := r.IntRange(cfg.MinSize, Size-1-cfg.MinSize)
			y := r.IntRange(cfg.MinSize, Size-1-cfg.MinSize)
			if !farEnough(cities, x, y, cfg.MinSpacing) {
				continue
			}
			size := cfg.MinSize
			if cfg.MaxSize > cfg.MinSize {
				size = r.IntRange(cfg.MinSize, cfg.MaxSize)
			}
			cities = append(cities, City{
				ID:   fmt.Sprintf("city_%d_%d", om.X*1000+om.Y, i),
				X:    x,
				Y:    y,
				Size: size,
				Name: fmt.Sprintf("City %d", i+1),
			})
			placed = true
			break
		}
		if !placed {
			break
		}
	}
	om.Cities = cities
	return cities
}

func farEnough(cities []City, x, y, minSpacing int) bool {
	for _, c := range cities {
		dx, dy := c.X-x, c.Y-y
		if dx*dx+dy*dy < minSpacing*minSpacing {
			return false
		}
	}
	return true
}

// BuildRoadGraph connects every placed city to its nearest unconnected
// neighbor with a road edge, then verifies the result is a single
// connected component. Cities become graph nodes via AddRoom (graph.Room's
// ID is reused for the city ID), roads become bidirectional
// graph.Connector edges via AddConnector, and the connectivity check
// reuses graph.Graph.IsConnected to confirm every city reaches every
// other by road.
func BuildRoadGraph(cities []City, seed uint64) (*graph.Graph, error) {
	g := graph.NewGraph(seed)
	for _, c := range cities {
		room := &graph.Room{
			ID:        c.ID,
			Archetype: graph.ArchetypeHub,
			Size:      graph.SizeL,
		}
		if err := g.AddRoom(room); err != nil {
			return nil, fmt.Errorf("overmap: add city %q to road graph: %w", c.ID, err)
		}
	}

	// Minimum-spanning-tree-by-greedy-nearest-neighbor: connect each city
	// (after the first) to whichever already-connected city is closest,
	// guaranteeing a single connected component with len(cities)-1 roads.
	connected := map[string]bool{}
	if len(cities) > 0 {
		connected[cities[0].ID] = true
	}
	for len(connected) < len(cities) {
		bestFrom, bestTo := "", ""
		bestDist := -1
		for _, from := range cities {
			if !connected[from.ID] {
				continue
			}
			for _, to := range cities {
				if connected[to.ID] {
					continue
				}
				dx, dy := from.X-to.X, from.Y-to.Y
				d := dx*dx + dy*dy
				if bestDist == -1 || d < bestDist {
					bestDist = d
					bestFrom, bestTo = from.ID, to.ID
				}
			}
		}
		if bestTo == "" {
			break
		}
		conn := &graph.Connector{
			ID:            fmt.Sprintf("road_%s_%s", bestFrom, bestTo),
			From:          bestFrom,
			To:            bestTo,
			Type:          graph.TypeRoad,
			Cost:          1.0,
			Bidirectional: true,
		}
		if err := g.AddConnector(conn); err != nil {
			return nil, fmt.Errorf("overmap: add road %s->%s: %w", bestFrom, bestTo, err)
		}
		connected[bestTo] = true
	}

	if !g.IsConnected() {
		return nil, fmt.Errorf("overmap: road graph does not connect all %d cities", len(cities))
	}
	return g, nil
}
