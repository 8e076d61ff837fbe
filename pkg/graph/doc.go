// Package graph provides generic node/edge graph data structures — rooms
// and connectors, independent of spatial layout — reused here as the
// overmap's city/road connectivity graph.
package graph
