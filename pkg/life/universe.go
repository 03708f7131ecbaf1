// Package life exposes an unbounded Game of Life universe backed by the
// HashLife quadtree engine. A Universe owns its node arena; every operation
// on it is synchronous and none is safe for concurrent use.
package life

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"hashlife/internal/quad"
	"hashlife/pkg/pattern"
)

// MaxStepLog is the largest accepted step exponent; Step advances time by
// 2^k generations for the configured k.
const MaxStepLog = 62

// BBox is an inclusive bounding box in universe coordinates.
type BBox struct {
	XMin, YMin, XMax, YMax int64
}

// Stats reports engine occupancy counters for diagnostics.
type Stats struct {
	Nodes        int
	CacheEntries int
	InternHits   uint64
	InternMisses uint64
	CacheHits    uint64
	CacheMisses  uint64
}

// Universe is an effectively unbounded Life board. The origin sits at the
// center of the root square; x grows rightward and y downward.
type Universe struct {
	store   *quad.Store
	root    quad.NodeID
	stepLog uint8
	gen     big.Int
}

// New returns an empty universe at generation 0 with step exponent 0.
func New() *Universe {
	return newIn(quad.NewStore())
}

// newIn builds an empty universe sharing an existing arena. Universes in
// one arena share interned nodes and memoized results.
func newIn(store *quad.Store) *Universe {
	return &Universe{store: store, root: store.Empty(quad.LeafLevel)}
}

// FromRLE decodes an RLE pattern and loads it into a fresh universe with
// the pattern's top-left corner at (0, 0). Loading is atomic: on error no
// universe is returned.
func FromRLE(r io.Reader) (*Universe, error) {
	p, err := pattern.DecodeRLE(r)
	if err != nil {
		return nil, err
	}
	u := New()
	for _, c := range p.Cells {
		if err := u.SetCell(c.X, c.Y, true); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// SetCell writes the cell at (x, y), growing the root until the coordinate
// fits strictly inside its half-side.
func (u *Universe) SetCell(x, y int64, alive bool) error {
	for {
		lvl := u.store.Level(u.root)
		half := int64(1) << (lvl - 1)
		if x > -half && x < half && y > -half && y < half {
			break
		}
		if lvl >= quad.MaxLevel {
			return errors.Wrapf(ErrCoordinateOutOfRange, "cell (%d, %d)", x, y)
		}
		u.root = u.store.Expand(u.root)
	}
	half := int64(1) << (u.store.Level(u.root) - 1)
	u.root = u.store.SetBit(u.root, uint64(x+half), uint64(y+half), alive)
	return nil
}

// GetCell reads the cell at (x, y). Coordinates outside the root are dead.
func (u *Universe) GetCell(x, y int64) bool {
	half := int64(1) << (u.store.Level(u.root) - 1)
	if x < -half || x >= half || y < -half || y >= half {
		return false
	}
	return u.store.GetBit(u.root, uint64(x+half), uint64(y+half))
}

// Population returns the number of live cells.
func (u *Universe) Population() uint64 {
	return u.store.Population(u.root)
}

// BoundingBox returns the tight box around all live cells, or false when
// the universe is empty.
func (u *Universe) BoundingBox() (BBox, bool) {
	b, ok := u.store.BoundingBox(u.root)
	if !ok {
		return BBox{}, false
	}
	half := int64(1) << (u.store.Level(u.root) - 1)
	return BBox{b.XMin - half, b.YMin - half, b.XMax - half, b.YMax - half}, true
}

// ForEachLive calls fn for every live cell inside clip.
func (u *Universe) ForEachLive(clip BBox, fn func(x, y int64)) {
	half := int64(1) << (u.store.Level(u.root) - 1)
	u.store.ForEach(u.root, -half, -half, quad.Box(clip), fn)
}

// SetStepLog2 selects the step exponent: each Step call advances by 2^k
// generations. Changing k never invalidates memoized results.
func (u *Universe) SetStepLog2(k uint8) error {
	if k > MaxStepLog {
		return errors.Wrapf(ErrStepTooLarge, "step exponent %d", k)
	}
	u.stepLog = k
	return nil
}

// StepLog2 returns the current step exponent.
func (u *Universe) StepLog2() uint8 { return u.stepLog }

// Generation returns the number of generations elapsed since creation.
func (u *Universe) Generation() *big.Int {
	return new(big.Int).Set(&u.gen)
}

// Step advances the universe by 2^k generations for the configured step
// exponent k.
func (u *Universe) Step() error {
	k := u.stepLog
	for !u.roomToStep(k) {
		if u.store.Level(u.root) >= quad.MaxLevel {
			return errors.Wrapf(ErrStepTooLarge, "no headroom for step 2^%d", k)
		}
		u.root = u.store.Expand(u.root)
	}
	u.root = u.store.Evolve(u.root, k)
	u.gen.Add(&u.gen, new(big.Int).Lsh(big.NewInt(1), uint(k)))
	u.trim()
	return nil
}

// roomToStep reports whether the root can absorb a 2^k step: it must be
// tall enough for the recursion and keep every live cell inside its
// centered quarter, so nothing can reach the edge of the result window even
// at light speed.
func (u *Universe) roomToStep(k uint8) bool {
	lvl := u.store.Level(u.root)
	if u.store.Population(u.root) == 0 {
		return lvl > quad.LeafLevel && lvl >= k+2
	}
	if lvl < 5 || lvl < k+3 {
		return false
	}
	center := u.store.Center(u.store.Center(u.root))
	return u.store.Population(center) == u.store.Population(u.root)
}

// trim shrinks the root while its live cells fit in the centered half,
// undoing the padding added for stepping.
func (u *Universe) trim() {
	for u.store.Level(u.root) > quad.LeafLevel {
		c := u.store.Center(u.root)
		if u.store.Population(c) != u.store.Population(u.root) {
			return
		}
		u.root = c
	}
}

// Stats returns arena and cache counters.
func (u *Universe) Stats() Stats {
	return Stats(u.store.Stats())
}

// Level returns the current root level, mainly for diagnostics.
func (u *Universe) Level() uint8 {
	return u.store.Level(u.root)
}
