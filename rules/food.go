package rules

// RandomSource is a uniform generator over [0,1). *math/rand.Rand satisfies
// it.
type RandomSource interface {
	Float64() float64
}

// placeFood picks a random empty cell by rejection sampling over the whole
// grid. It reports false without sampling when the grid has no empty cell
// left, since the loop would never end.
func placeFood(g *Grid, rnd RandomSource) (Point, bool) {
	if g.Count(CellEmpty) == 0 {
		return Point{}, false
	}
	for {
		p := Point{
			Row: sample(rnd, g.height),
			Col: sample(rnd, g.width),
		}
		if g.At(p) == CellEmpty {
			return p, true
		}
	}
}

func sample(rnd RandomSource, n uint32) uint32 {
	v := uint32(rnd.Float64() * float64(n))
	// Float64 is in [0,1), guard against sources that return 1.
	if v >= n {
		v = n - 1
	}
	return v
}
