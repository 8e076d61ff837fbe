package validate

import (
	"context"
	"testing"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/furniture"
	"github.com/ashfall-game/mapgen/pkg/overmap"
	"github.com/ashfall-game/mapgen/pkg/submap"
	"github.com/ashfall-game/mapgen/pkg/terrain"
)

func mustTerrainStore(t *testing.T) *content.Store[terrain.Def] {
	t.Helper()
	var log diagnostics.Log
	store, err := terrain.Load([]byte(`[{"type":"terrain","id":"t_floor","name":"floor","sym":".","color":"white"}]`), &log)
	if err != nil {
		t.Fatalf("terrain.Load: %v", err)
	}
	return store
}

func mustFurnitureStore(t *testing.T) *content.Store[furniture.Def] {
	t.Helper()
	var log diagnostics.Log
	store, err := furniture.Load([]byte(`[]`), &log)
	if err != nil {
		t.Fatalf("furniture.Load: %v", err)
	}
	return store
}

func TestCheckTerrainIDsResolved_ValidSubmap(t *testing.T) {
	ts := mustTerrainStore(t)
	fs := mustFurnitureStore(t)
	sm := submap.NewUniform(ts.IntID("t_floor"))
	result := CheckTerrainIDsResolved(sm, ts, fs)
	if !result.Satisfied {
		t.Errorf("expected resolved terrain ids, got %s", result.Details)
	}
}

func TestCheckTerrainIDsResolved_UnresolvedTerrain(t *testing.T) {
	ts := mustTerrainStore(t)
	fs := mustFurnitureStore(t)
	sm := submap.NewUniform(999)
	result := CheckTerrainIDsResolved(sm, ts, fs)
	if result.Satisfied {
		t.Fatal("expected unresolved terrain id to fail the check")
	}
}

func TestCheckUniformXorExpanded(t *testing.T) {
	sm := submap.NewUniform(0)
	if !CheckUniformXorExpanded(sm).Satisfied {
		t.Error("expected a fresh uniform submap to pass")
	}
	_ = sm.SetTerrain(0, 0, 5)
	if !CheckUniformXorExpanded(sm).Satisfied {
		t.Error("expected an expanded submap to pass")
	}
}

func TestCheckRoadConnectivity(t *testing.T) {
	cities := []overmap.City{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 50, Y: 50}}
	g, err := overmap.BuildRoadGraph(cities, 1)
	if err != nil {
		t.Fatalf("BuildRoadGraph: %v", err)
	}
	if !CheckRoadConnectivity(g).Satisfied {
		t.Error("expected two-city road graph to be connected")
	}
}

func TestCheckCityMinSpacing(t *testing.T) {
	cities := []overmap.City{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 100, Y: 100}}
	result := CheckCityMinSpacing(cities, 10)
	if !result.Satisfied || result.Score != 1.0 {
		t.Errorf("expected full score for well-spaced cities, got %+v", result)
	}
}

func TestDefaultValidator_ValidateSubmaps(t *testing.T) {
	ts := mustTerrainStore(t)
	fs := mustFurnitureStore(t)
	sms := []*submap.Submap{submap.NewUniform(ts.IntID("t_floor"))}

	v := NewValidator()
	report, err := v.ValidateSubmaps(context.Background(), sms, ts, fs)
	if err != nil {
		t.Fatalf("ValidateSubmaps: %v", err)
	}
	if !report.Passed {
		t.Errorf("expected report to pass, errors: %v", report.Errors)
	}
}

func TestDefaultValidator_ValidateOvermap(t *testing.T) {
	om := overmap.NewOvermap(0, 0)
	r := overmap.NewBuffer() // sanity that overmap package types are reachable here
	_ = r
	om.Cities = []overmap.City{{ID: "a", X: 0, Y: 0}, {ID: "b", X: 60, Y: 60}}

	v := NewValidator()
	report, err := v.ValidateOvermap(context.Background(), om, overmap.CityConfig{MinSpacing: 20})
	if err != nil {
		t.Fatalf("ValidateOvermap: %v", err)
	}
	if !report.Passed {
		t.Errorf("expected connected two-city overmap to pass, errors: %v", report.Errors)
	}
	if report.Metrics.CityCount != 2 {
		t.Errorf("CityCount = %d, want 2", report.Metrics.CityCount)
	}
}
