package quad

import "hashlife/internal/tile"

// Evolve returns the node one level below id holding id's centered square
// advanced by 2^exp generations, with exp clamped to level-2 (the largest
// advancement the node's own content can justify). Results are memoized per
// (node, exponent); because nodes are hash-consed the cache is canonical,
// and structurally identical regions advance at the cost of one lookup.
func (s *Store) Evolve(id NodeID, exp uint8) NodeID {
	lvl := s.nodes[id].level
	if lvl == LeafLevel {
		panic("quad: Evolve on a leaf")
	}
	if max := lvl - 2; exp > max {
		exp = max
	}
	key := stepKey{id: id, exp: exp}
	if r, ok := s.results.get(key); ok {
		s.cacheHits++
		return r
	}
	s.cacheMisses++
	var r NodeID
	if lvl == LeafLevel+1 {
		r = s.evolveBase(id, exp)
	} else {
		r = s.evolveRec(id, exp)
	}
	s.results.put(key, r)
	return r
}

// evolveBase advances a 16x16 node by 1, 2 or 4 generations (exp 0..2) and
// returns its centered 8x8 as a leaf. The four tiles are framed in a 4x4
// tile grid of dead space; 2^exp single-generation sweeps over the frame
// simulate the node in isolation, which is exact for the center because
// nothing outside the frame can reach it within four generations.
func (s *Store) evolveBase(id NodeID, exp uint8) NodeID {
	n := s.nodes[id]
	var g [4][4]tile.Tile
	g[1][1] = s.nodes[n.nw].tile
	g[1][2] = s.nodes[n.ne].tile
	g[2][1] = s.nodes[n.sw].tile
	g[2][2] = s.nodes[n.se].tile

	for gen := 0; gen < 1<<exp; gen++ {
		at := func(r, c int) tile.Tile {
			if r < 0 || r > 3 || c < 0 || c > 3 {
				return 0
			}
			return g[r][c]
		}
		var next [4][4]tile.Tile
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				next[r][c] = tile.Step9(
					at(r-1, c-1), at(r-1, c), at(r-1, c+1),
					at(r, c-1), at(r, c), at(r, c+1),
					at(r+1, c-1), at(r+1, c), at(r+1, c+1),
				)
			}
		}
		g = next
	}
	return s.Leaf(tile.Center4(g[1][1], g[1][2], g[2][1], g[2][2]))
}

// evolveRec implements the macrocell recursion for levels >= 5. The node is
// partitioned into nine overlapping half-size squares whose corners are the
// children and whose edges and center come from grandchildren.
func (s *Store) evolveRec(id NodeID, exp uint8) NodeID {
	n := s.nodes[id]
	nw := s.nodes[n.nw]
	ne := s.nodes[n.ne]
	sw := s.nodes[n.sw]
	se := s.nodes[n.se]

	sub := [3][3]NodeID{
		{n.nw, s.Branch(nw.ne, ne.nw, nw.se, ne.sw), n.ne},
		{
			s.Branch(nw.sw, nw.se, sw.nw, sw.ne),
			s.Branch(nw.se, ne.sw, sw.ne, se.nw),
			s.Branch(ne.sw, ne.se, se.nw, se.ne),
		},
		{n.sw, s.Branch(sw.ne, se.nw, sw.se, se.sw), n.se},
	}

	var r [3][3]NodeID
	for i := range sub {
		for j := range sub[i] {
			r[i][j] = s.Evolve(sub[i][j], exp)
		}
	}

	if exp == n.level-2 {
		// Full step: the nine results are a half step ahead already;
		// advancing the four overlapping windows assembled from them
		// doubles the advancement. This is the doubling that makes the
		// running time logarithmic in the step size.
		return s.Branch(
			s.Evolve(s.Branch(r[0][0], r[0][1], r[1][0], r[1][1]), exp),
			s.Evolve(s.Branch(r[0][1], r[0][2], r[1][1], r[1][2]), exp),
			s.Evolve(s.Branch(r[1][0], r[1][1], r[2][0], r[2][1]), exp),
			s.Evolve(s.Branch(r[1][1], r[1][2], r[2][1], r[2][2]), exp),
		)
	}

	// Half step: the results already sit at the requested time; assembling
	// their centered quarters is purely spatial.
	return s.Branch(
		s.centerOf(r[0][0], r[0][1], r[1][0], r[1][1]),
		s.centerOf(r[0][1], r[0][2], r[1][1], r[1][2]),
		s.centerOf(r[1][0], r[1][1], r[2][0], r[2][1]),
		s.centerOf(r[1][1], r[1][2], r[2][1], r[2][2]),
	)
}
