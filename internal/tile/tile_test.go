package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashlife/internal/core"
)

// scalarStep computes one B3/S23 generation of the 24x24 neighborhood formed
// by nine tiles and returns the center 8x8. It is the plain nested-loop
// reference the bit-parallel kernel is checked against.
func scalarStep(tiles [3][3]Tile) Tile {
	var cur [24][24]bool
	for ty := 0; ty < 3; ty++ {
		for tx := 0; tx < 3; tx++ {
			for y := 0; y < Side; y++ {
				for x := 0; x < Side; x++ {
					cur[ty*Side+y][tx*Side+x] = tiles[ty][tx].Get(x, y)
				}
			}
		}
	}
	var out Tile
	for y := Side; y < 2*Side; y++ {
		for x := Side; x < 2*Side; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if cur[y+dy][x+dx] {
						neighbors++
					}
				}
			}
			alive := cur[y][x]
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				out = out.Set(x-Side, y-Side, true)
			}
		}
	}
	return out
}

func TestStep9MatchesScalarReference(t *testing.T) {
	rng := core.NewRNG(42)
	for i := 0; i < 100000; i++ {
		var tiles [3][3]Tile
		for ty := range tiles {
			for tx := range tiles[ty] {
				tiles[ty][tx] = Tile(rng.Uint64())
			}
		}
		got := Step9(
			tiles[0][0], tiles[0][1], tiles[0][2],
			tiles[1][0], tiles[1][1], tiles[1][2],
			tiles[2][0], tiles[2][1], tiles[2][2],
		)
		want := scalarStep(tiles)
		if got != want {
			t.Fatalf("sample %d: Step9 = %#016x, scalar = %#016x, center %#016x", i, uint64(got), uint64(want), uint64(tiles[1][1]))
		}
	}
}

func TestStep9SparseNeighborhoods(t *testing.T) {
	rng := core.NewRNG(7)
	for i := 0; i < 20000; i++ {
		var tiles [3][3]Tile
		for ty := range tiles {
			for tx := range tiles[ty] {
				// Sparse boards exercise births across tile seams that
				// dense noise rarely isolates.
				tiles[ty][tx] = Tile(rng.Uint64() & rng.Uint64() & rng.Uint64())
			}
		}
		got := Step9(
			tiles[0][0], tiles[0][1], tiles[0][2],
			tiles[1][0], tiles[1][1], tiles[1][2],
			tiles[2][0], tiles[2][1], tiles[2][2],
		)
		if want := scalarStep(tiles); got != want {
			t.Fatalf("sample %d: Step9 = %#016x, scalar = %#016x", i, uint64(got), uint64(want))
		}
	}
}

func TestStep9Blinker(t *testing.T) {
	var c Tile
	c = c.Set(2, 3, true).Set(3, 3, true).Set(4, 3, true)

	next := Step9(0, 0, 0, 0, c, 0, 0, 0, 0)

	var want Tile
	want = want.Set(3, 2, true).Set(3, 3, true).Set(3, 4, true)
	assert.Equal(t, want, next)

	again := Step9(0, 0, 0, 0, next, 0, 0, 0, 0)
	assert.Equal(t, c, again)
}

func TestShiftDiscardsEdges(t *testing.T) {
	var c Tile
	c = c.Set(0, 0, true).Set(7, 7, true).Set(3, 4, true)

	right := c.Shift(1, 0)
	assert.True(t, right.Get(1, 0))
	assert.True(t, right.Get(4, 4))
	assert.False(t, right.Get(0, 7), "corner cell should fall off the east edge")
	assert.Equal(t, 2, right.Population())

	up := c.Shift(0, -1)
	assert.True(t, up.Get(7, 6))
	assert.True(t, up.Get(3, 3))
	assert.Equal(t, 2, up.Population())

	diag := c.Shift(-1, 1)
	assert.True(t, diag.Get(2, 5))
	assert.Equal(t, 1, diag.Population())

	assert.Equal(t, c, c.Shift(0, 0))
}

func TestShiftComposesWithGet(t *testing.T) {
	rng := core.NewRNG(3)
	for i := 0; i < 1000; i++ {
		tl := Tile(rng.Uint64())
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				s := tl.Shift(dx, dy)
				for y := 0; y < Side; y++ {
					for x := 0; x < Side; x++ {
						sx, sy := x-dx, y-dy
						want := sx >= 0 && sx < Side && sy >= 0 && sy < Side && tl.Get(sx, sy)
						if s.Get(x, y) != want {
							t.Fatalf("shift (%d,%d) of %#016x wrong at (%d,%d)", dx, dy, uint64(tl), x, y)
						}
					}
				}
			}
		}
	}
}

func TestCenter4PadRoundTrip(t *testing.T) {
	rng := core.NewRNG(11)
	for i := 0; i < 10000; i++ {
		tl := Tile(rng.Uint64())
		nw, ne, sw, se := PadQuadrants(tl)
		require.Equal(t, tl, Center4(nw, ne, sw, se))
		require.Equal(t, tl.Population(), nw.Population()+ne.Population()+sw.Population()+se.Population())
	}
}

func TestCenter4PicksInnerQuadrants(t *testing.T) {
	var nw, ne, sw, se Tile
	nw = nw.Set(7, 7, true).Set(0, 0, true)
	ne = ne.Set(0, 7, true).Set(7, 0, true)
	sw = sw.Set(7, 0, true).Set(0, 7, true)
	se = se.Set(0, 0, true).Set(7, 7, true)

	c := Center4(nw, ne, sw, se)
	var want Tile
	want = want.Set(3, 3, true).Set(4, 3, true).Set(3, 4, true).Set(4, 4, true)
	assert.Equal(t, want, c)
}

func TestSetGetAndPopulation(t *testing.T) {
	var tl Tile
	assert.Equal(t, 0, tl.Population())

	tl = tl.Set(5, 2, true)
	assert.True(t, tl.Get(5, 2))
	assert.Equal(t, 1, tl.Population())
	assert.Equal(t, uint8(1<<5), tl.Row(2))

	tl = tl.Set(5, 2, false)
	assert.Equal(t, Tile(0), tl)
}
