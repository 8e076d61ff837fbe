package submap

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

// TestRapid_RotateFourIsIdentity exercises the round-trip invariant
// (`rotate(4) == identity`) over arbitrarily generated expanded submaps,
// using pgregory.net/rapid for generator-invariant fuzzing.
func TestRapid_RotateFourIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSubmap(t)
		before := snapshot(s)
		s.Rotate(4)
		if !reflect.DeepEqual(before, snapshot(s)) {
			t.Fatalf("rotate(4) is not identity")
		}
	})
}

func TestRapid_RotatePlusMinusIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSubmap(t)
		r := rapid.IntRange(1, 3).Draw(t, "turns")
		before := snapshot(s)
		s.Rotate(r)
		s.Rotate(-r)
		if !reflect.DeepEqual(before, snapshot(s)) {
			t.Fatalf("rotate(%d) then rotate(%d) is not identity", r, -r)
		}
	})
}

func TestRapid_MirrorTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSubmap(t)
		horizontal := rapid.Bool().Draw(t, "horizontal")
		before := snapshot(s)
		s.Mirror(horizontal)
		s.Mirror(horizontal)
		if !reflect.DeepEqual(before, snapshot(s)) {
			t.Fatalf("mirror twice is not identity")
		}
	})
}

func TestRapid_OptimizeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSubmap(t)
		s.Optimize()
		firstUniform := s.IsUniform()
		changed := s.Optimize()
		if changed {
			t.Fatalf("second Optimize call must be a no-op")
		}
		if s.IsUniform() != firstUniform {
			t.Fatalf("optimize idempotence violated: uniform flag changed")
		}
	})
}

func TestRapid_OptimizeOnUniformIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		terrainID := rapid.IntRange(0, 50).Draw(t, "terrain")
		s := NewUniform(terrainID)
		if s.Optimize() {
			t.Fatalf("Optimize must never change an already-uniform submap")
		}
	})
}

func TestRapid_UniformXorExpandedInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSubmap(t)
		// Exactly one of the two representations is authoritative at any
		// time; IsUniform is the single source of truth and GetTerrain must
		// never panic or diverge between calls regardless of which form is
		// active.
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				_ = s.GetTerrain(x, y)
			}
		}
	})
}

// genSubmap builds a submap via a random sequence of writes starting from a
// uniform base, exercising the lazy-expand path the way real generation
// traffic would.
func genSubmap(t *rapid.T) *Submap {
	base := rapid.IntRange(0, 10).Draw(t, "base_terrain")
	s := NewUniform(base)

	writes := rapid.IntRange(0, 30).Draw(t, "write_count")
	for i := 0; i < writes; i++ {
		x := rapid.IntRange(0, Size-1).Draw(t, "x")
		y := rapid.IntRange(0, Size-1).Draw(t, "y")
		switch rapid.IntRange(0, 3).Draw(t, "op") {
		case 0:
			_ = s.SetTerrain(x, y, rapid.IntRange(0, 10).Draw(t, "terrain_id"))
		case 1:
			_ = s.SetFurniture(x, y, rapid.IntRange(0, 5).Draw(t, "furniture_id"))
		case 2:
			_ = s.SetTrap(x, y, rapid.IntRange(0, 3).Draw(t, "trap_id"))
		case 3:
			_ = s.SetField(x, y, FieldEntry{Type: "fire", Intensity: rapid.IntRange(1, 3).Draw(t, "intensity")})
		}
	}
	return s
}
