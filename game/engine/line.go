package engine

// CollapseLine slides the tiles of one line toward index 0 and merges
// adjacent same-value, same-faction pairs once. It returns the new line,
// padded with empty cells to the input length, the score gained and the
// number of merges.
func CollapseLine(line []Tile) ([]Tile, int, int) {
	compact := make([]Tile, 0, len(line))
	for _, t := range line {
		if !t.IsEmpty() {
			compact = append(compact, t)
		}
	}

	out := make([]Tile, 0, len(line))
	gained, merges := 0, 0
	for i := 0; i < len(compact); i++ {
		if i+1 < len(compact) && compact[i].Matches(compact[i+1]) {
			merged := Tile{Value: compact[i].Value * 2, Faction: compact[i].Faction}
			out = append(out, merged)
			gained += merged.Value
			merges++
			i++ // second half of the pair is consumed
			continue
		}
		out = append(out, compact[i])
	}

	for len(out) < len(line) {
		out = append(out, Tile{})
	}
	return out, gained, merges
}

// lineIndices returns the grid indices of line n for a direction, ordered
// so that index 0 of the result is the edge tiles slide toward.
func lineIndices(dir Direction, n int) []int {
	idx := make([]int, Side)
	for k := 0; k < Side; k++ {
		switch dir {
		case Left:
			idx[k] = Index(n, k)
		case Right:
			idx[k] = Index(n, Side-1-k)
		case Up:
			idx[k] = Index(k, n)
		case Down:
			idx[k] = Index(Side-1-k, n)
		}
	}
	return idx
}
