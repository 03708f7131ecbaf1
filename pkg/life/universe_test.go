package life

import (
	"errors"
	"testing"

	"hashlife/internal/quad"
)

func mustSet(t *testing.T, u *Universe, cells ...[2]int64) {
	t.Helper()
	for _, c := range cells {
		if err := u.SetCell(c[0], c[1], true); err != nil {
			t.Fatalf("SetCell(%d, %d): %v", c[0], c[1], err)
		}
	}
}

func mustStep(t *testing.T, u *Universe) {
	t.Helper()
	if err := u.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func collect(u *Universe) map[[2]int64]bool {
	cells := map[[2]int64]bool{}
	if box, ok := u.BoundingBox(); ok {
		u.ForEachLive(box, func(x, y int64) {
			cells[[2]int64{x, y}] = true
		})
	}
	return cells
}

func expectCells(t *testing.T, u *Universe, want map[[2]int64]bool) {
	t.Helper()
	got := collect(u)
	if len(got) != len(want) {
		t.Fatalf("got %d live cells, want %d", len(got), len(want))
	}
	for c := range want {
		if !got[c] {
			t.Fatalf("cell (%d,%d) should be alive", c[0], c[1])
		}
	}
}

func TestBlinkerOscillation(t *testing.T) {
	u := New()
	mustSet(t, u, [2]int64{0, 0}, [2]int64{1, 0}, [2]int64{2, 0})

	mustStep(t, u)

	if pop := u.Population(); pop != 3 {
		t.Fatalf("population = %d, want 3", pop)
	}
	expectCells(t, u, map[[2]int64]bool{
		{1, -1}: true,
		{1, 0}:  true,
		{1, 1}:  true,
	})
	box, ok := u.BoundingBox()
	if !ok || box != (BBox{1, -1, 1, 1}) {
		t.Fatalf("bounding box = %+v (ok=%v), want {1 -1 1 1}", box, ok)
	}

	mustStep(t, u)
	expectCells(t, u, map[[2]int64]bool{
		{0, 0}: true,
		{1, 0}: true,
		{2, 0}: true,
	})
	if g := u.Generation(); g.Int64() != 2 {
		t.Fatalf("generation = %s, want 2", g)
	}
}

func gliderCells(dx, dy int64) map[[2]int64]bool {
	cells := map[[2]int64]bool{}
	for _, c := range [][2]int64{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}} {
		cells[[2]int64{c[0] + dx, c[1] + dy}] = true
	}
	return cells
}

func TestGliderTranslation(t *testing.T) {
	u := New()
	for c := range gliderCells(0, 0) {
		mustSet(t, u, c)
	}
	if err := u.SetStepLog2(2); err != nil {
		t.Fatalf("SetStepLog2: %v", err)
	}

	mustStep(t, u)

	if pop := u.Population(); pop != 5 {
		t.Fatalf("population = %d, want 5", pop)
	}
	expectCells(t, u, gliderCells(1, 1))
	if g := u.Generation(); g.Int64() != 4 {
		t.Fatalf("generation = %s, want 4", g)
	}
}

func TestGliderDeepTime(t *testing.T) {
	u := New()
	for c := range gliderCells(0, 0) {
		mustSet(t, u, c)
	}
	if err := u.SetStepLog2(10); err != nil {
		t.Fatalf("SetStepLog2: %v", err)
	}

	mustStep(t, u)

	if g := u.Generation(); g.Int64() != 1024 {
		t.Fatalf("generation = %s, want 1024", g)
	}
	if pop := u.Population(); pop != 5 {
		t.Fatalf("population = %d, want 5", pop)
	}
	// The glider moves one cell diagonally every four generations.
	expectCells(t, u, gliderCells(256, 256))
}

func TestBlockIsStillAtEveryStepSize(t *testing.T) {
	block := map[[2]int64]bool{{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true}
	for k := uint8(0); k <= 10; k++ {
		u := New()
		for c := range block {
			mustSet(t, u, c)
		}
		if err := u.SetStepLog2(k); err != nil {
			t.Fatalf("SetStepLog2(%d): %v", k, err)
		}
		mustStep(t, u)
		expectCells(t, u, block)
	}
}

func TestEmptyUniverseStaysEmpty(t *testing.T) {
	u := New()
	total := int64(0)
	for _, k := range []uint8{0, 3, 7, 0} {
		if err := u.SetStepLog2(k); err != nil {
			t.Fatalf("SetStepLog2(%d): %v", k, err)
		}
		mustStep(t, u)
		total += int64(1) << k
	}
	if pop := u.Population(); pop != 0 {
		t.Fatalf("population = %d, want 0", pop)
	}
	if _, ok := u.BoundingBox(); ok {
		t.Fatal("empty universe reported a bounding box")
	}
	if g := u.Generation(); g.Int64() != total {
		t.Fatalf("generation = %s, want %d", g, total)
	}
}

func TestDoublingLaw(t *testing.T) {
	// An R-pentomino churns for a long time, so two k-steps agreeing with
	// one (k+1)-step is strong evidence the recursion composes in time.
	seed := [][2]int64{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}}
	for k := uint8(0); k <= 3; k++ {
		twice := New()
		once := New()
		for _, c := range seed {
			mustSet(t, twice, c)
			mustSet(t, once, c)
		}
		if err := twice.SetStepLog2(k); err != nil {
			t.Fatalf("SetStepLog2(%d): %v", k, err)
		}
		if err := once.SetStepLog2(k + 1); err != nil {
			t.Fatalf("SetStepLog2(%d): %v", k+1, err)
		}

		mustStep(t, twice)
		mustStep(t, twice)
		mustStep(t, once)

		if twice.Generation().Cmp(once.Generation()) != 0 {
			t.Fatalf("generations diverged: %s vs %s", twice.Generation(), once.Generation())
		}
		a, b := collect(twice), collect(once)
		if len(a) != len(b) {
			t.Fatalf("k=%d: populations diverged: %d vs %d", k, len(a), len(b))
		}
		for c := range a {
			if !b[c] {
				t.Fatalf("k=%d: cell (%d,%d) only reached by the doubled path", k, c[0], c[1])
			}
		}
	}
}

func TestSetGetCellFarFromOrigin(t *testing.T) {
	u := New()
	spots := [][2]int64{{0, 0}, {-1, -1}, {1000000007, -2000000011}, {-(1 << 40), 1 << 40}}
	for _, c := range spots {
		mustSet(t, u, c)
	}
	for _, c := range spots {
		if !u.GetCell(c[0], c[1]) {
			t.Fatalf("cell (%d,%d) should be alive", c[0], c[1])
		}
	}
	if u.GetCell(3, 3) {
		t.Fatal("unwritten cell reported alive")
	}
	if pop := u.Population(); pop != uint64(len(spots)) {
		t.Fatalf("population = %d, want %d", pop, len(spots))
	}

	if err := u.SetCell(-1, -1, false); err != nil {
		t.Fatalf("SetCell clear: %v", err)
	}
	if u.GetCell(-1, -1) {
		t.Fatal("cleared cell reported alive")
	}
}

func TestCoordinateOutOfRange(t *testing.T) {
	u := New()
	err := u.SetCell(1<<62, 0, true)
	if !errors.Is(err, ErrCoordinateOutOfRange) {
		t.Fatalf("err = %v, want ErrCoordinateOutOfRange", err)
	}
	// The failed write must not disturb the universe.
	if pop := u.Population(); pop != 0 {
		t.Fatalf("population = %d after failed write, want 0", pop)
	}
}

func TestStepTooLarge(t *testing.T) {
	u := New()
	if err := u.SetStepLog2(63); !errors.Is(err, ErrStepTooLarge) {
		t.Fatalf("err = %v, want ErrStepTooLarge", err)
	}
	if err := u.SetStepLog2(MaxStepLog); err != nil {
		t.Fatalf("SetStepLog2(%d): %v", MaxStepLog, err)
	}
	mustSet(t, u, [2]int64{0, 0}, [2]int64{1, 0}, [2]int64{0, 1}, [2]int64{1, 1})
	if err := u.Step(); !errors.Is(err, ErrStepTooLarge) {
		t.Fatalf("step err = %v, want ErrStepTooLarge", err)
	}
}

func TestSharedArenaInterning(t *testing.T) {
	store := quad.NewStore()
	a := newIn(store)
	b := newIn(store)

	cells := gliderCells(5, -3)
	for c := range cells {
		mustSet(t, a, c)
		mustSet(t, b, c)
	}
	if a.root != b.root {
		t.Fatalf("identical universes interned different roots: %d vs %d", a.root, b.root)
	}
}
