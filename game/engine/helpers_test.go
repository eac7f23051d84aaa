package engine

import "math/rand"

// scriptedRand replays fixed draws; exhausted queues return zero values.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func b(v int) Tile { return Tile{Value: v, Faction: Benign} }
func h(v int) Tile { return Tile{Value: v, Faction: Hostile} }

func row(tiles ...Tile) []Tile {
	line := make([]Tile, Side)
	copy(line, tiles)
	return line
}

// randomGrid fills roughly 60% of the cells with small tiles of either faction
func randomGrid(r *rand.Rand) Grid {
	g := NewGrid()
	for i := range g {
		if r.Float64() < 0.6 {
			faction := Benign
			if r.Intn(2) == 1 {
				faction = Hostile
			}
			g[i] = Tile{Value: 2 << r.Intn(3), Faction: faction}
		}
	}
	return g
}

func mirror(g Grid) Grid {
	out := NewGrid()
	for r := 0; r < Side; r++ {
		for c := 0; c < Side; c++ {
			out[Index(r, c)] = g[Index(r, Side-1-c)]
		}
	}
	return out
}

func transpose(g Grid) Grid {
	out := NewGrid()
	for r := 0; r < Side; r++ {
		for c := 0; c < Side; c++ {
			out[Index(r, c)] = g[Index(c, r)]
		}
	}
	return out
}

// checkerboard returns a full benign grid with no equal neighbours
func checkerboard() Grid {
	g := NewGrid()
	for r := 0; r < Side; r++ {
		for c := 0; c < Side; c++ {
			if (r+c)%2 == 0 {
				g[Index(r, c)] = b(2)
			} else {
				g[Index(r, c)] = b(4)
			}
		}
	}
	return g
}

// sumTiles adds up every tile value; slides never change it
func sumTiles(grid Grid) int {
	sum := 0
	for _, t := range grid {
		sum += t.Value
	}
	return sum
}
