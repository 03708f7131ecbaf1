package quad

import (
	"math/bits"

	"hashlife/internal/tile"
)

// Box is an inclusive rectangle of cell coordinates.
type Box struct {
	XMin, YMin, XMax, YMax int64
}

// Union returns the smallest box covering both b and o.
func (b Box) Union(o Box) Box {
	if o.XMin < b.XMin {
		b.XMin = o.XMin
	}
	if o.YMin < b.YMin {
		b.YMin = o.YMin
	}
	if o.XMax > b.XMax {
		b.XMax = o.XMax
	}
	if o.YMax > b.YMax {
		b.YMax = o.YMax
	}
	return b
}

// Contains reports whether (x, y) lies inside the box.
func (b Box) Contains(x, y int64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// SetBit returns a node equal to id except that the cell at the node-local
// coordinates (x, y) takes v. Exactly one child per level is rebuilt; the
// rest are shared with the original.
func (s *Store) SetBit(id NodeID, x, y uint64, v bool) NodeID {
	n := s.nodes[id]
	if n.level == LeafLevel {
		return s.Leaf(n.tile.Set(int(x), int(y), v))
	}
	half := uint64(1) << (n.level - 1)
	switch {
	case x < half && y < half:
		return s.Branch(s.SetBit(n.nw, x, y, v), n.ne, n.sw, n.se)
	case y < half:
		return s.Branch(n.nw, s.SetBit(n.ne, x-half, y, v), n.sw, n.se)
	case x < half:
		return s.Branch(n.nw, n.ne, s.SetBit(n.sw, x, y-half, v), n.se)
	default:
		return s.Branch(n.nw, n.ne, n.sw, s.SetBit(n.se, x-half, y-half, v))
	}
}

// GetBit reads the cell at node-local coordinates (x, y).
func (s *Store) GetBit(id NodeID, x, y uint64) bool {
	for {
		n := &s.nodes[id]
		if n.level == LeafLevel {
			return n.tile.Get(int(x), int(y))
		}
		if n.pop == 0 {
			return false
		}
		half := uint64(1) << (n.level - 1)
		switch {
		case x < half && y < half:
			id = n.nw
		case y < half:
			id, x = n.ne, x-half
		case x < half:
			id, y = n.sw, y-half
		default:
			id, x, y = n.se, x-half, y-half
		}
	}
}

// centerOf builds the node aligned to the center of the square whose four
// quadrants are the given equal-level nodes, without interning that square
// itself.
func (s *Store) centerOf(nw, ne, sw, se NodeID) NodeID {
	if s.nodes[nw].level == LeafLevel {
		return s.Leaf(tile.Center4(s.nodes[nw].tile, s.nodes[ne].tile, s.nodes[sw].tile, s.nodes[se].tile))
	}
	return s.Branch(s.nodes[nw].se, s.nodes[ne].sw, s.nodes[sw].ne, s.nodes[se].nw)
}

// Center returns the level l-1 node aligned to the geometric center of a
// level-l branch.
func (s *Store) Center(id NodeID) NodeID {
	n := s.nodes[id]
	if n.level == LeafLevel {
		panic("quad: Center on a leaf")
	}
	return s.centerOf(n.nw, n.ne, n.sw, n.se)
}

// Expand returns a node one level above id whose center is id, padding the
// surroundings with canonical empty space.
func (s *Store) Expand(id NodeID) NodeID {
	n := s.nodes[id]
	if n.level >= MaxLevel {
		panic("quad: expand above max level")
	}
	if n.level == LeafLevel {
		nw, ne, sw, se := tile.PadQuadrants(n.tile)
		return s.Branch(s.Leaf(nw), s.Leaf(ne), s.Leaf(sw), s.Leaf(se))
	}
	e := s.Empty(n.level - 1)
	return s.Branch(
		s.Branch(e, e, e, n.nw),
		s.Branch(e, e, n.ne, e),
		s.Branch(e, n.sw, e, e),
		s.Branch(n.se, e, e, e),
	)
}

// BoundingBox reports the tight box around the node's live cells in local
// coordinates, or false when the node is empty. Shared subtrees are measured
// once per call.
func (s *Store) BoundingBox(id NodeID) (Box, bool) {
	memo := make(map[NodeID]Box)
	return s.bbox(id, memo)
}

func (s *Store) bbox(id NodeID, memo map[NodeID]Box) (Box, bool) {
	n := &s.nodes[id]
	if n.pop == 0 {
		return Box{}, false
	}
	if b, ok := memo[id]; ok {
		return b, true
	}
	var b Box
	if n.level == LeafLevel {
		b = tileBox(n.tile)
	} else {
		half := int64(1) << (n.level - 1)
		first := true
		for _, q := range [4]struct {
			id     NodeID
			dx, dy int64
		}{
			{n.nw, 0, 0},
			{n.ne, half, 0},
			{n.sw, 0, half},
			{n.se, half, half},
		} {
			cb, ok := s.bbox(q.id, memo)
			if !ok {
				continue
			}
			cb = Box{cb.XMin + q.dx, cb.YMin + q.dy, cb.XMax + q.dx, cb.YMax + q.dy}
			if first {
				b, first = cb, false
			} else {
				b = b.Union(cb)
			}
		}
	}
	memo[id] = b
	return b, true
}

func tileBox(t tile.Tile) Box {
	b := uint64(t)
	cols := b | b>>32
	cols |= cols >> 16
	cols |= cols >> 8
	cols &= 0xFF
	return Box{
		XMin: int64(bits.TrailingZeros8(uint8(cols))),
		YMin: int64(bits.TrailingZeros64(b) / 8),
		XMax: int64(7 - bits.LeadingZeros8(uint8(cols))),
		YMax: int64((63 - bits.LeadingZeros64(b)) / 8),
	}
}

// ForEach calls fn for every live cell inside clip, with (ox, oy) giving the
// coordinates of the node's top-left corner in the caller's frame. Empty and
// fully clipped subtrees are pruned without descent.
func (s *Store) ForEach(id NodeID, ox, oy int64, clip Box, fn func(x, y int64)) {
	n := &s.nodes[id]
	if n.pop == 0 {
		return
	}
	if spanEnd(ox, n.level) < clip.XMin || ox > clip.XMax ||
		spanEnd(oy, n.level) < clip.YMin || oy > clip.YMax {
		return
	}
	if n.level == LeafLevel {
		for b := uint64(n.tile); b != 0; b &= b - 1 {
			i := bits.TrailingZeros64(b)
			x, y := ox+int64(i%8), oy+int64(i/8)
			if clip.Contains(x, y) {
				fn(x, y)
			}
		}
		return
	}
	half := int64(1) << (n.level - 1)
	s.ForEach(n.nw, ox, oy, clip, fn)
	s.ForEach(n.ne, ox+half, oy, clip, fn)
	s.ForEach(n.sw, ox, oy+half, clip, fn)
	s.ForEach(n.se, ox+half, oy+half, clip, fn)
}

// spanEnd returns the last coordinate covered by a node of the given level
// whose first coordinate is o. The addition runs modulo 2^64 so a level-63
// span does not overflow.
func spanEnd(o int64, level uint8) int64 {
	return int64(uint64(o) + (uint64(1) << level) - 1)
}
