package layout

// Pair is two overlapping node ids, A < B.
type Pair struct {
	A, B string
}

// Overlaps reports whether the boxes of a and b intersect. Touching edges do
// not count.
func Overlaps(a, b Node) bool {
	return intersects(a.Box(), b.Box())
}

// OverlappingPairs returns every pair of same-lane nodes that overlap.
func OverlappingPairs(l Layout) []Pair {
	var out []Pair
	forSameLane(l.Nodes, func(a, b Node) {
		if Overlaps(a, b) {
			p := Pair{A: a.ID, B: b.ID}
			if p.B < p.A {
				p.A, p.B = p.B, p.A
			}
			out = append(out, p)
		}
	})
	return out
}

// OverlapRatio returns overlapping same-lane pairs over all same-lane pairs,
// or 0 when no lane has two nodes.
func OverlapRatio(l Layout) float64 {
	pairs, hits := 0, 0
	forSameLane(l.Nodes, func(a, b Node) {
		pairs++
		if Overlaps(a, b) {
			hits++
		}
	})
	if pairs == 0 {
		return 0
	}
	return float64(hits) / float64(pairs)
}

func forSameLane(nodes []Node, fn func(a, b Node)) {
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if nodes[i].Lane == nodes[j].Lane {
				fn(nodes[i], nodes[j])
			}
		}
	}
}

func intersects(a, b Block) bool {
	return a.Left < b.Right && b.Left < a.Right && a.Top < b.Bottom && b.Top < a.Bottom
}
