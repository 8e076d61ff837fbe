package overmap

import (
	"math"

	"github.com/ashfall-game/mapgen/pkg/synthesis"
)

// MaxCityRadius is the distance, in cells, beyond which a city's influence
// on building/road density is considered to have fully tapered off.
const MaxCityRadius = 60.0

// DensityCurve evaluates building/road density as a function of normalized
// distance from the nearest city center, reusing the pacing-curve
// abstraction (pkg/synthesis/pacing.go's PacingCurve) retargeted from a
// progress-based difficulty curve to "density over distance from a city
// center" — Evaluate(0) is the city core (maximum density), Evaluate(1) is
// the edge of influence (minimum density).
type DensityCurve struct {
	curve synthesis.PacingCurve
}

// NewDensityCurve wraps a PacingCurve for density lookups. A nil curve
// defaults to a linear taper.
func NewDensityCurve(curve synthesis.PacingCurve) DensityCurve {
	if curve == nil {
		curve = &synthesis.LinearCurve{}
	}
	return DensityCurve{curve: curve}
}

// DensityAt returns the density in [0,1] at the given distance from the
// nearest city center, inverted from the curve's progress-over-distance
// reading (progress 0 = city core = density 1; progress 1 = edge = density
// 0).
func (d DensityCurve) DensityAt(distance float64) float64 {
	progress := distance / MaxCityRadius
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return 1 - d.curve.Evaluate(progress)
}

// NearestCityDistance returns the Euclidean distance from (x,y) to the
// nearest city in cities, or MaxCityRadius if cities is empty (maximum
// taper, matching a wilderness cell with no settlement influence).
func NearestCityDistance(cities []City, x, y int) float64 {
	if len(cities) == 0 {
		return MaxCityRadius
	}
	best := math.MaxFloat64
	for _, c := range cities {
		dx, dy := float64(c.X-x), float64(c.Y-y)
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < best {
			best = dist
		}
	}
	return best
}

// DensityAtCell is a convenience combining NearestCityDistance and
// DensityAt for a single overmap cell.
func (d DensityCurve) DensityAtCell(cities []City, x, y int) float64 {
	return d.DensityAt(NearestCityDistance(cities, x, y))
}
