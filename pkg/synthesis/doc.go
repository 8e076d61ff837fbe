// Package synthesis provides pacing curves: difficulty/density progressions
// evaluated at a normalized progress point. pkg/overmap wraps them as a
// density-over-distance-from-city-center curve; overmap generation does not
// apply that density to the terrain or roads it stamps.
package synthesis
