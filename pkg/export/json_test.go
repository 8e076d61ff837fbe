package export

import (
	"encoding/json"
	"testing"

	"github.com/ashfall-game/mapgen/pkg/submap"
)

func TestDumpSubmap_FlattensTileGrid(t *testing.T) {
	sm := submap.NewUniform(3)
	_ = sm.SetFurniture(1, 1, 7)
	_ = sm.SetItems(2, 2, []string{"item_rusty_key"})
	_ = sm.SetTrap(4, 4, 9)
	sm.AddSpawn(submap.SpawnPoint{X: 5, Y: 5, Kind: "raider"})

	dump := DumpSubmap(sm)
	if dump.Width != submap.Size || dump.Height != submap.Size {
		t.Fatalf("dimensions = %dx%d, want %dx%d", dump.Width, dump.Height, submap.Size, submap.Size)
	}
	if got := dump.Terrain[0]; got != 3 {
		t.Errorf("Terrain[0] = %d, want 3", got)
	}
	if got := dump.Furniture[index(1, 1)]; got != 7 {
		t.Errorf("Furniture at (1,1) = %d, want 7", got)
	}
	if items := dump.Items[cellKey(2, 2)]; len(items) != 1 || items[0] != "item_rusty_key" {
		t.Errorf("Items at (2,2) = %v", items)
	}
	if trap := dump.Traps[cellKey(4, 4)]; trap != 9 {
		t.Errorf("Traps at (4,4) = %d, want 9", trap)
	}
	if len(dump.Spawns) != 1 || dump.Spawns[0].Kind != "raider" {
		t.Errorf("Spawns = %v", dump.Spawns)
	}
}

func index(x, y int) int { return y*submap.Size + x }

func TestExportJSON_RoundTrips(t *testing.T) {
	sm := submap.NewUniform(1)
	_ = sm.SetTerrain(0, 0, 2)

	data, err := ExportJSON(sm)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var dump SubmapDump
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if dump.Terrain[index(0, 0)] != 2 {
		t.Errorf("round-tripped Terrain[0,0] = %d, want 2", dump.Terrain[index(0, 0)])
	}
}

func TestExportJSONCompact_IsValidSingleLineJSON(t *testing.T) {
	sm := submap.NewUniform(0)
	data, err := ExportJSONCompact(sm)
	if err != nil {
		t.Fatalf("ExportJSONCompact: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("compact export is not valid JSON")
	}
}

func TestSaveJSONToFile(t *testing.T) {
	sm := submap.NewUniform(0)
	path := t.TempDir() + "/submap.json"
	if err := SaveJSONToFile(sm, path); err != nil {
		t.Fatalf("SaveJSONToFile: %v", err)
	}
}
