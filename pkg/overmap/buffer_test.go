package overmap

import "testing"

func TestBuffer_StoreLoad(t *testing.T) {
	b := NewBuffer()
	om := NewOvermap(3, 4)
	b.Store(om)
	got, ok := b.Load(Coord{X: 3, Y: 4})
	if !ok || got != om {
		t.Fatal("expected Load to return the stored overmap")
	}
	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1", b.Len())
	}
}

func TestBuffer_GetNeighborsOnlyLoaded(t *testing.T) {
	b := NewBuffer()
	center := Coord{X: 0, Y: 0}
	b.Store(NewOvermap(0, -1))
	b.Store(NewOvermap(0, 1))
	// east/west neighbors not loaded
	got := b.GetNeighbors(center)
	if len(got) != 2 {
		t.Fatalf("GetNeighbors returned %d, want 2 loaded neighbors", len(got))
	}
}

func TestBuffer_RemoveAndTerrainCache(t *testing.T) {
	b := NewBuffer()
	c := Coord{X: 1, Y: 1}
	b.Store(NewOvermap(1, 1))
	b.Remove(c)
	if _, ok := b.Load(c); ok {
		t.Fatal("expected overmap to be gone after Remove")
	}

	b.CacheTerrainID("t_floor", 5)
	id, ok := b.CachedTerrainID("t_floor")
	if !ok || id != 5 {
		t.Fatalf("CachedTerrainID = (%d,%v), want (5,true)", id, ok)
	}
}
