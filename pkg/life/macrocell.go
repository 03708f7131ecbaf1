package life

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"hashlife/internal/quad"
	"hashlife/internal/tile"
	"hashlife/pkg/pattern"
)

// DecodeMacrocell reads Golly's macrocell format: a `[M2]` header line,
// optional `#R` rule and `#G` generation lines, then one node per line.
// Leaves are 8x8 bitmaps written as `.`/`*` rows separated by `$`; branches
// are `level nw ne sw se` with 1-based references to earlier nodes, 0
// meaning empty space one level below. The last node is the root, placed
// with its center at the origin.
//
// Node references may be shared, so a small file can describe a universe
// whose population exceeds what the engine's 64-bit counters can hold; the
// arena panics on such a file rather than loading it with wrapped counts,
// and DecodeMacrocell does not turn that panic into an error.
func DecodeMacrocell(r io.Reader) (*Universe, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	u := New()
	ids := []quad.NodeID{0} // 1-based; slot 0 unused
	levels := []uint8{0}
	line := 0
	seenHeader := false

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !seenHeader {
			if !strings.HasPrefix(text, "[M2]") {
				return nil, &pattern.ParseError{Line: line, Reason: "not a macrocell file"}
			}
			seenHeader = true
			continue
		}
		if strings.HasPrefix(text, "#") {
			if err := u.macrocellDirective(text, line); err != nil {
				return nil, err
			}
			continue
		}
		var (
			id  quad.NodeID
			lvl uint8
			err error
		)
		if text[0] == '.' || text[0] == '*' || text[0] == '$' {
			id, err = decodeMacrocellLeaf(u.store, text, line)
			lvl = quad.LeafLevel
		} else {
			id, lvl, err = decodeMacrocellBranch(u.store, text, line, ids, levels)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		levels = append(levels, lvl)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read macrocell")
	}
	if !seenHeader {
		return nil, &pattern.ParseError{Line: line, Reason: "not a macrocell file"}
	}
	if len(ids) > 1 {
		u.root = ids[len(ids)-1]
	}
	return u, nil
}

func (u *Universe) macrocellDirective(text string, line int) error {
	switch {
	case strings.HasPrefix(text, "#R"):
		if err := pattern.CheckRule(strings.TrimSpace(text[2:])); err != nil {
			return err
		}
	case strings.HasPrefix(text, "#G"):
		g, ok := new(big.Int).SetString(strings.TrimSpace(text[2:]), 10)
		if !ok || g.Sign() < 0 {
			return &pattern.ParseError{Line: line, Reason: "bad generation count"}
		}
		u.gen.Set(g)
	}
	return nil
}

func decodeMacrocellLeaf(store *quad.Store, text string, line int) (quad.NodeID, error) {
	var t tile.Tile
	x, y := 0, 0
	for _, ch := range text {
		switch ch {
		case '$':
			x, y = 0, y+1
		case '.':
			x++
		case '*':
			if x >= tile.Side || y >= tile.Side {
				return 0, &pattern.ParseError{Line: line, Reason: "leaf bitmap exceeds 8x8"}
			}
			t = t.Set(x, y, true)
			x++
		default:
			return 0, &pattern.ParseError{Line: line, Reason: fmt.Sprintf("unexpected %q in leaf bitmap", ch)}
		}
		if x > tile.Side || y > tile.Side {
			return 0, &pattern.ParseError{Line: line, Reason: "leaf bitmap exceeds 8x8"}
		}
	}
	return store.Leaf(t), nil
}

func decodeMacrocellBranch(store *quad.Store, text string, line int, ids []quad.NodeID, levels []uint8) (quad.NodeID, uint8, error) {
	fields := strings.Fields(text)
	if len(fields) != 5 {
		return 0, 0, &pattern.ParseError{Line: line, Reason: "branch line needs 5 fields"}
	}
	lvl64, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil || lvl64 <= quad.LeafLevel || lvl64 > quad.MaxLevel {
		return 0, 0, &pattern.ParseError{Line: line, Reason: fmt.Sprintf("bad node level %q", fields[0])}
	}
	lvl := uint8(lvl64)
	var children [4]quad.NodeID
	for i, f := range fields[1:] {
		ref, err := strconv.Atoi(f)
		if err != nil || ref < 0 || ref >= len(ids) {
			return 0, 0, &pattern.ParseError{Line: line, Reason: fmt.Sprintf("bad node reference %q", f)}
		}
		if ref == 0 {
			children[i] = store.Empty(lvl - 1)
			continue
		}
		if levels[ref] != lvl-1 {
			return 0, 0, &pattern.ParseError{
				Line:   line,
				Reason: fmt.Sprintf("node %d has level %d, want %d", ref, levels[ref], lvl-1),
			}
		}
		children[i] = ids[ref]
	}
	return store.Branch(children[0], children[1], children[2], children[3]), lvl, nil
}

// WriteMacrocell serializes the universe in macrocell format, preserving
// the quadtree's structure sharing: each distinct node is written once and
// referenced by index afterwards.
func (u *Universe) WriteMacrocell(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "[M2] (hashlife 1.0)")
	fmt.Fprintln(bw, "#R B3/S23")
	if u.gen.Sign() > 0 {
		fmt.Fprintf(bw, "#G %s\n", u.gen.String())
	}

	index := map[quad.NodeID]int{}
	next := 1
	var emit func(id quad.NodeID) int
	emit = func(id quad.NodeID) int {
		if u.store.Population(id) == 0 {
			return 0
		}
		if ix, ok := index[id]; ok {
			return ix
		}
		if u.store.Level(id) == quad.LeafLevel {
			writeMacrocellLeaf(bw, u.store.Tile(id))
		} else {
			nw, ne, sw, se := u.store.Children(id)
			a, b, c, d := emit(nw), emit(ne), emit(sw), emit(se)
			fmt.Fprintf(bw, "%d %d %d %d %d\n", u.store.Level(id), a, b, c, d)
		}
		index[id] = next
		next++
		return index[id]
	}
	emit(u.root)
	return errors.Wrap(bw.Flush(), "write macrocell")
}

func writeMacrocellLeaf(bw *bufio.Writer, t tile.Tile) {
	last := 0
	for y := 0; y < tile.Side; y++ {
		if t.Row(y) != 0 {
			last = y
		}
	}
	for y := 0; y <= last; y++ {
		row := t.Row(y)
		for x := 0; x < tile.Side; x++ {
			if row>>uint(x)&1 != 0 {
				bw.WriteByte('*')
			} else if row>>uint(x) != 0 {
				bw.WriteByte('.')
			}
		}
		bw.WriteByte('$')
	}
	bw.WriteByte('\n')
}
