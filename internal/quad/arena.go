package quad

import (
	"fmt"

	"hashlife/internal/tile"
)

// Store owns every quadtree node of a universe. Interning guarantees at most
// one copy of each structurally distinct node, so the node set forms a DAG
// under sharing and a NodeID comparison is a deep equality check. Storage is
// append-only; nodes live until the Store is dropped.
//
// A Store is single-owner: no operation on it is safe for concurrent use.
type Store struct {
	nodes    []node
	leaves   *probeTable[tile.Tile]
	branches *probeTable[branchKey]
	results  *probeTable[stepKey]

	empties [MaxLevel + 1]NodeID
	hasEmpty [MaxLevel + 1]bool

	internHits   uint64
	internMisses uint64
	cacheHits    uint64
	cacheMisses  uint64
}

// Stats reports arena and cache occupancy counters.
type Stats struct {
	Nodes        int
	CacheEntries int
	InternHits   uint64
	InternMisses uint64
	CacheHits    uint64
	CacheMisses  uint64
}

// NewStore returns an empty arena.
func NewStore() *Store {
	return &Store{
		leaves:   newProbeTable[tile.Tile](1 << 10),
		branches: newProbeTable[branchKey](1 << 12),
		results:  newProbeTable[stepKey](1 << 12),
	}
}

// Leaf interns an 8x8 tile as a level-3 node and returns its handle.
func (s *Store) Leaf(t tile.Tile) NodeID {
	if id, ok := s.leaves.get(t); ok {
		s.internHits++
		return id
	}
	s.internMisses++
	id := s.alloc(node{
		tile:  t,
		pop:   uint64(t.Population()),
		level: LeafLevel,
	})
	s.leaves.put(t, id)
	return id
}

// Branch interns a node with the four given children, which must all share
// one level. The new node sits one level above them.
func (s *Store) Branch(nw, ne, sw, se NodeID) NodeID {
	lvl := s.nodes[nw].level
	if s.nodes[ne].level != lvl || s.nodes[sw].level != lvl || s.nodes[se].level != lvl {
		panic(fmt.Sprintf("quad: branch children at levels %d/%d/%d/%d",
			s.nodes[nw].level, s.nodes[ne].level, s.nodes[sw].level, s.nodes[se].level))
	}
	if lvl >= MaxLevel {
		panic("quad: branch above max level")
	}
	key := branchKey{nw: nw, ne: ne, sw: sw, se: se, level: lvl + 1}
	if id, ok := s.branches.get(key); ok {
		s.internHits++
		return id
	}
	s.internMisses++
	pop := s.nodes[nw].pop
	for _, q := range [3]uint64{s.nodes[ne].pop, s.nodes[sw].pop, s.nodes[se].pop} {
		pop += q
		if pop < q {
			panic("quad: population exceeds 64 bits")
		}
	}
	id := s.alloc(node{
		nw: nw, ne: ne, sw: sw, se: se,
		pop:   pop,
		level: lvl + 1,
	})
	s.branches.put(key, id)
	return id
}

// Empty returns the canonical zero-population node at the given level,
// building the chain of empty nodes lazily.
func (s *Store) Empty(level uint8) NodeID {
	if level < LeafLevel || level > MaxLevel {
		panic(fmt.Sprintf("quad: empty node at level %d", level))
	}
	if s.hasEmpty[level] {
		return s.empties[level]
	}
	var id NodeID
	if level == LeafLevel {
		id = s.Leaf(0)
	} else {
		below := s.Empty(level - 1)
		id = s.Branch(below, below, below, below)
	}
	s.empties[level] = id
	s.hasEmpty[level] = true
	return id
}

// Level returns the level of the node.
func (s *Store) Level(id NodeID) uint8 { return s.nodes[id].level }

// Population returns the number of live cells under the node.
func (s *Store) Population(id NodeID) uint64 { return s.nodes[id].pop }

// Tile returns a leaf's bitmap.
func (s *Store) Tile(id NodeID) tile.Tile {
	n := &s.nodes[id]
	if n.level != LeafLevel {
		panic("quad: Tile on a branch")
	}
	return n.tile
}

// Children returns a branch's four child handles.
func (s *Store) Children(id NodeID) (nw, ne, sw, se NodeID) {
	n := &s.nodes[id]
	if n.level == LeafLevel {
		panic("quad: Children on a leaf")
	}
	return n.nw, n.ne, n.sw, n.se
}

// Len returns the number of interned nodes.
func (s *Store) Len() int { return len(s.nodes) }

// Stats returns occupancy and hit counters for the arena and the step cache.
func (s *Store) Stats() Stats {
	return Stats{
		Nodes:        len(s.nodes),
		CacheEntries: s.results.len(),
		InternHits:   s.internHits,
		InternMisses: s.internMisses,
		CacheHits:    s.cacheHits,
		CacheMisses:  s.cacheMisses,
	}
}

func (s *Store) alloc(n node) NodeID {
	if len(s.nodes) > int(^NodeID(0))-1 {
		panic("quad: node arena full")
	}
	s.nodes = append(s.nodes, n)
	return NodeID(len(s.nodes) - 1)
}
