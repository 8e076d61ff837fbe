package submap

// Rotate rotates the submap 90 degrees clockwise per turn. turns may be
// negative (mod 4, so rotate(-1) == rotate(3)); rotate(4) and rotate(0) are
// both a no-op. Uniform submaps are unaffected by rotation per spec.md.
func (s *Submap) Rotate(turns int) {
	turns = ((turns % 4) + 4) % 4
	if turns == 0 || s.uniform {
		return
	}
	for i := 0; i < turns; i++ {
		s.rotateOnce()
	}
}

// rotateOnce applies a single 90-degree clockwise rotation: cell (x,y)
// moves to (Size-1-y, x).
func (s *Submap) rotateOnce() {
	var terrain, furniture, lum, radiation [Cells]int
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			from := index(x, y)
			nx, ny := Size-1-y, x
			to := index(nx, ny)
			terrain[to] = s.terrain[from]
			furniture[to] = s.furniture[from]
			lum[to] = s.lum[from]
			radiation[to] = s.radiation[from]
		}
	}
	s.terrain, s.furniture, s.lum, s.radiation = terrain, furniture, lum, radiation

	s.items = rotateSparseMap(s.items)
	s.fields = rotateSparseMap(s.fields)
	s.traps = rotateSparseMap(s.traps)

	for i := range s.spawns {
		x, y := s.spawns[i].X, s.spawns[i].Y
		s.spawns[i].X, s.spawns[i].Y = Size-1-y, x
	}
	s.touch()
}

func rotateSparseMap[V any](m map[int]V) map[int]V {
	if len(m) == 0 {
		return m
	}
	out := make(map[int]V, len(m))
	for key, v := range m {
		x, y := key%Size, key/Size
		nx, ny := Size-1-y, x
		out[index(nx, ny)] = v
	}
	return out
}

// Mirror flips the submap. horizontal=true maps (x,y) -> (Size-1-x, y);
// horizontal=false maps (x,y) -> (x, Size-1-y). Uniform submaps are
// unaffected.
func (s *Submap) Mirror(horizontal bool) {
	if s.uniform {
		return
	}

	var terrain, furniture, lum, radiation [Cells]int
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			from := index(x, y)
			nx, ny := x, y
			if horizontal {
				nx = Size - 1 - x
			} else {
				ny = Size - 1 - y
			}
			to := index(nx, ny)
			terrain[to] = s.terrain[from]
			furniture[to] = s.furniture[from]
			lum[to] = s.lum[from]
			radiation[to] = s.radiation[from]
		}
	}
	s.terrain, s.furniture, s.lum, s.radiation = terrain, furniture, lum, radiation

	s.items = mirrorSparseMap(s.items, horizontal)
	s.fields = mirrorSparseMap(s.fields, horizontal)
	s.traps = mirrorSparseMap(s.traps, horizontal)

	for i := range s.spawns {
		x, y := s.spawns[i].X, s.spawns[i].Y
		if horizontal {
			s.spawns[i].X = Size - 1 - x
		} else {
			s.spawns[i].Y = Size - 1 - y
		}
	}
	s.touch()
}

func mirrorSparseMap[V any](m map[int]V, horizontal bool) map[int]V {
	if len(m) == 0 {
		return m
	}
	out := make(map[int]V, len(m))
	for key, v := range m {
		x, y := key%Size, key/Size
		if horizontal {
			x = Size - 1 - x
		} else {
			y = Size - 1 - y
		}
		out[index(x, y)] = v
	}
	return out
}
