package validate

import (
	"context"
	"fmt"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/furniture"
	"github.com/ashfall-game/mapgen/pkg/overmap"
	"github.com/ashfall-game/mapgen/pkg/submap"
	"github.com/ashfall-game/mapgen/pkg/terrain"
)

// Validator checks a generated artifact and computes metrics: one Validate
// call returns a Report, with an error reserved for a validation-process
// failure rather than a constraint failure.
type Validator interface {
	ValidateSubmaps(ctx context.Context, sms []*submap.Submap, terrainStore *content.Store[terrain.Def], furnitureStore *content.Store[furniture.Def]) (*Report, error)
	ValidateOvermap(ctx context.Context, om *overmap.Overmap, cityCfg overmap.CityConfig) (*Report, error)
}

// DefaultValidator implements Validator with the checks defined in
// constraints.go.
type DefaultValidator struct{}

// NewValidator returns a Validator with default settings.
func NewValidator() Validator {
	return &DefaultValidator{}
}

// ValidateSubmaps checks every submap in sms for terrain/furniture id
// resolution and uniform-XOR-expanded consistency, then computes
// aggregate metrics across the set.
func (v *DefaultValidator) ValidateSubmaps(ctx context.Context, sms []*submap.Submap, terrainStore *content.Store[terrain.Def], furnitureStore *content.Store[furniture.Def]) (*Report, error) {
	if terrainStore == nil {
		return nil, fmt.Errorf("validate: terrain store cannot be nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	report := NewReport()
	for _, sm := range sms {
		report.addHard(CheckTerrainIDsResolved(sm, terrainStore, furnitureStore))
		report.addHard(CheckUniformXorExpanded(sm))
	}
	report.Metrics.ExpandedRatio = ExpandedRatio(sms)
	report.Metrics.UnresolvedCount = 0 // populated by a caller that also has the diagnostics.Log

	return report, nil
}

// ValidateOvermap checks road connectivity and city spacing for om's
// placed cities, against the CityConfig the caller generated it with.
func (v *DefaultValidator) ValidateOvermap(ctx context.Context, om *overmap.Overmap, cityCfg overmap.CityConfig) (*Report, error) {
	if om == nil {
		return nil, fmt.Errorf("validate: overmap cannot be nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	report := NewReport()
	g, err := overmap.BuildRoadGraph(om.Cities, 0)
	if err != nil {
		return nil, fmt.Errorf("validate: build road graph: %w", err)
	}
	report.addHard(CheckRoadConnectivity(g))
	report.addSoft(CheckCityMinSpacing(om.Cities, cityCfg.MinSpacing))
	report.Metrics.CityCount = len(om.Cities)
	report.Metrics.RoadCount = len(g.Connectors)

	return report, nil
}
