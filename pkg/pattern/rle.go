// Package pattern reads and writes Life pattern interchange formats. It is
// engine-agnostic: decoders produce plain cell lists and encoders consume
// them, so the package never touches the quadtree.
package pattern

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Cell is one live cell position, x growing rightward and y downward.
type Cell struct {
	X, Y int64
}

// Pattern is a decoded pattern: its declared extent and the live cells
// relative to the top-left corner at (0, 0).
type Pattern struct {
	Width, Height int64
	Cells         []Cell
}

// ErrRuleUnsupported reports a pattern file declaring a rule other than
// B3/S23.
var ErrRuleUnsupported = errors.New("unsupported rule, engine is B3/S23 only")

// ParseError reports malformed pattern input with a 1-based line number.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// CheckRule validates a rule string against B3/S23 and its common synonyms.
func CheckRule(rule string) error {
	r := strings.ToLower(strings.ReplaceAll(rule, " ", ""))
	switch r {
	case "", "b3/s23", "s23/b3", "23/3":
		return nil
	}
	return errors.Wrapf(ErrRuleUnsupported, "rule %q", rule)
}

const maxRun = int64(1) << 40

// DecodeRLE reads a pattern in the standard run-length-encoded format: a
// `x = W, y = H[, rule = ...]` header followed by runs of `b` (dead), `o`
// (live) and `$` (end of row), terminated by `!`. Lines starting with `#`
// are comments.
func DecodeRLE(r io.Reader) (*Pattern, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	p := &Pattern{}
	line := 0
	header := false
	done := false
	var x, y, run int64

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !header {
			if err := p.parseHeader(text, line); err != nil {
				return nil, err
			}
			header = true
			continue
		}
		if done {
			continue
		}
		for _, ch := range text {
			switch {
			case ch >= '0' && ch <= '9':
				run = run*10 + int64(ch-'0')
				if run > maxRun {
					return nil, &ParseError{Line: line, Reason: "run count too large"}
				}
			case ch == 'b':
				x += runLen(run)
				run = 0
			case ch == 'o':
				for i := int64(0); i < runLen(run); i++ {
					p.Cells = append(p.Cells, Cell{X: x, Y: y})
					x++
				}
				run = 0
			case ch == '$':
				y += runLen(run)
				x = 0
				run = 0
			case ch == '!':
				done = true
			case ch == ' ' || ch == '\t':
			default:
				return nil, &ParseError{Line: line, Reason: fmt.Sprintf("unexpected %q in pattern body", ch)}
			}
			if done {
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read rle")
	}
	if !header {
		return nil, &ParseError{Line: line, Reason: "missing header"}
	}
	if !done {
		return nil, &ParseError{Line: line, Reason: "pattern not terminated by '!'"}
	}
	return p, nil
}

func runLen(run int64) int64 {
	if run == 0 {
		return 1
	}
	return run
}

func (p *Pattern) parseHeader(text string, line int) error {
	for _, field := range strings.Split(text, ",") {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return &ParseError{Line: line, Reason: fmt.Sprintf("malformed header field %q", strings.TrimSpace(field))}
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		switch key {
		case "x":
			w, err := strconv.ParseInt(val, 10, 64)
			if err != nil || w < 0 {
				return &ParseError{Line: line, Reason: fmt.Sprintf("bad width %q", val)}
			}
			p.Width = w
		case "y":
			h, err := strconv.ParseInt(val, 10, 64)
			if err != nil || h < 0 {
				return &ParseError{Line: line, Reason: fmt.Sprintf("bad height %q", val)}
			}
			p.Height = h
		case "rule":
			if err := CheckRule(val); err != nil {
				return err
			}
		default:
			return &ParseError{Line: line, Reason: fmt.Sprintf("unknown header field %q", key)}
		}
	}
	return nil
}

// EncodeRLE writes the pattern in run-length-encoded form with a B3/S23
// rule header, wrapping body lines near 70 columns.
func EncodeRLE(w io.Writer, p *Pattern) error {
	cells := append([]Cell(nil), p.Cells...)
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "x = %d, y = %d, rule = B3/S23\n", p.Width, p.Height)

	enc := rleRuns{w: bw}
	var x, y int64
	for i, c := range cells {
		if i > 0 && c == cells[i-1] {
			continue
		}
		if c.Y > y {
			enc.run(c.Y-y, '$')
			y = c.Y
			x = 0
		}
		if c.X > x {
			enc.run(c.X-x, 'b')
			x = c.X
		}
		enc.run(1, 'o')
		x++
	}
	enc.flushRun()
	bw.WriteString("!\n")
	return errors.Wrap(bw.Flush(), "write rle")
}

// rleRuns coalesces consecutive identical tags into counted runs and wraps
// output lines.
type rleRuns struct {
	w     *bufio.Writer
	tag   byte
	count int64
	col   int
}

func (e *rleRuns) run(n int64, tag byte) {
	if n <= 0 {
		return
	}
	if tag == e.tag {
		e.count += n
		return
	}
	e.flushRun()
	e.tag = tag
	e.count = n
}

func (e *rleRuns) flushRun() {
	if e.count == 0 {
		return
	}
	var s string
	if e.count == 1 {
		s = string(e.tag)
	} else {
		s = strconv.FormatInt(e.count, 10) + string(e.tag)
	}
	if e.col+len(s) > 70 {
		e.w.WriteByte('\n')
		e.col = 0
	}
	e.w.WriteString(s)
	e.col += len(s)
	e.tag = 0
	e.count = 0
}
