package overmap

import (
	"testing"

	"github.com/ashfall-game/mapgen/pkg/content"
	"github.com/ashfall-game/mapgen/pkg/diagnostics"
	"github.com/ashfall-game/mapgen/pkg/mapgen"
	"github.com/ashfall-game/mapgen/pkg/rng"
)

func mustOvermapTerrain(t *testing.T) *content.Store[mapgen.OvermapTerrainDef] {
	t.Helper()
	data := []byte(`[
		{"type":"overmap_terrain","id":"omt_field","name":"field","sym":".","color":"green","see_cost":1},
		{"type":"overmap_terrain","id":"omt_house","name":"house","sym":"^","color":"red","see_cost":2},
		{"type":"overmap_terrain","id":"omt_road","name":"road","sym":"#","color":"gray","see_cost":1}
	]`)
	var log diagnostics.Log
	store, err := mapgen.LoadOvermapTerrain(data, &log)
	if err != nil {
		t.Fatalf("LoadOvermapTerrain: %v", err)
	}
	return store
}

func TestGenerator_Generate_FillsWildernessAndCities(t *testing.T) {
	g := &Generator{OvermapTerrain: mustOvermapTerrain(t)}

	cfg := DefaultGenConfig()
	cfg.Cities.Count = 2
	cfg.Cities.MinSpacing = 20

	r := rng.NewRNG(7, "overmap", nil)
	var log diagnostics.Log
	om := g.Generate(0, 0, cfg, r, &log)

	if om.GetCell(0, 0, 0).Terrain != cfg.WildernessTerrain {
		t.Errorf("corner cell terrain = %q, want wilderness %q", om.GetCell(0, 0, 0).Terrain, cfg.WildernessTerrain)
	}
	if len(om.Cities) == 0 {
		t.Fatal("expected at least one city to be placed")
	}

	c := om.Cities[0]
	if om.GetCell(c.X, c.Y, 0).Terrain != cfg.CityTerrain {
		t.Errorf("city center terrain = %q, want %q", om.GetCell(c.X, c.Y, 0).Terrain, cfg.CityTerrain)
	}
}

func TestGenerator_Generate_MissingTerrainLogsAndFallsBack(t *testing.T) {
	g := &Generator{OvermapTerrain: mustOvermapTerrain(t)}
	cfg := DefaultGenConfig()
	cfg.WildernessTerrain = "omt_does_not_exist"

	r := rng.NewRNG(1, "overmap", nil)
	var log diagnostics.Log
	om := g.Generate(0, 0, cfg, r, &log)

	if log.CountByKind(diagnostics.MissingReference) == 0 {
		t.Error("expected a MissingReference warning for the unknown wilderness terrain")
	}
	if om.GetCell(0, 0, 0).Terrain != mapgen.NullOvermapTerrainID {
		t.Errorf("expected fallback to null terrain, got %q", om.GetCell(0, 0, 0).Terrain)
	}
}
