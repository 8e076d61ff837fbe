package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashfall-game/mapgen/pkg/diagnostics"
)

const testPackYAML = `
name: test-pack
files: ["pack.json"]
`

const testPackJSON = `[
  {"type":"terrain","id":"t_floor","name":"floor","sym":".","color":"#444"},
  {"type":"furniture","id":"f_chair","name":"chair","symbol":"h","color":"#888"},
  {"type":"trap","id":"tr_pit","name":"pit","symbol":"^","color":"#400"},
  {"type":"palette","id":"pal_empty","terrain":{}},
  {"type":"overmap_terrain","id":"omt_field","name":"field","sym":"f"},
  {"type":"overmap_terrain","id":"omt_house","name":"house","sym":"H"},
  {"type":"overmap_terrain","id":"omt_road","name":"road","sym":"r"},
  {"type":"mapgen","om_terrain":["omt_field"],"object":{"fill_ter":"t_floor"}},
  {"type":"mapgen","om_terrain":["omt_house"],"object":{"fill_ter":"t_floor"}},
  {"type":"mapgen","om_terrain":["omt_road"],"object":{"fill_ter":"t_floor"}}
]`

func writeTestPack(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte(testPackYAML), 0644); err != nil {
		t.Fatalf("write pack.yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pack.json"), []byte(testPackJSON), 0644); err != nil {
		t.Fatalf("write pack.json: %v", err)
	}
	return dir
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.ContentDir = writeTestPack(t)
	cfg.Overmap.CityCount = 2
	cfg.Overmap.MinCitySpacing = 10
	return cfg
}

func TestLoadStores_BuildsAllSixStores(t *testing.T) {
	cfg := testConfig(t)
	log := &diagnostics.Log{}
	stores, err := LoadStores(&cfg, log)
	if err != nil {
		t.Fatalf("LoadStores: %v", err)
	}
	if _, ok := stores.Terrain.Get("t_floor"); !ok {
		t.Error("expected t_floor in terrain store")
	}
	if _, ok := stores.OvermapTerrain.Get("omt_field"); !ok {
		t.Error("expected omt_field in overmap terrain store")
	}
	if _, ok := stores.Templates.Get("omt_field"); !ok {
		t.Error("expected a mapgen template keyed by omt_field")
	}
}

func TestGenerate_PopulatesOvermapAndGameMap(t *testing.T) {
	cfg := testConfig(t)

	result, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Overmap == nil {
		t.Fatal("expected a generated overmap")
	}
	if result.GameMap.Count() == 0 {
		t.Error("expected at least one populated game-map slot")
	}
	if result.OvermapReport == nil || result.SubmapReport == nil {
		t.Fatal("expected both validation reports to be populated")
	}
}

func TestGenerate_DeterministicAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	r1, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate (1): %v", err)
	}
	r2, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate (2): %v", err)
	}
	if len(r1.Overmap.Cities) != len(r2.Overmap.Cities) {
		t.Fatalf("city count differs across runs with the same seed: %d vs %d", len(r1.Overmap.Cities), len(r2.Overmap.Cities))
	}
	for i := range r1.Overmap.Cities {
		if r1.Overmap.Cities[i] != r2.Overmap.Cities[i] {
			t.Errorf("city[%d] differs across runs: %+v vs %+v", i, r1.Overmap.Cities[i], r2.Overmap.Cities[i])
		}
	}
	if r1.GameMap.Count() != r2.GameMap.Count() {
		t.Errorf("game-map slot count differs across runs: %d vs %d", r1.GameMap.Count(), r2.GameMap.Count())
	}
}

func TestGenerate_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ContentDir = ""
	if _, err := Generate(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an invalid config")
	}
}

func TestGenerate_HonorsCanceledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, cfg); err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}
