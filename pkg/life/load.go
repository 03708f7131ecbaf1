package life

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"hashlife/internal/format"
	"hashlife/pkg/pattern"
)

func init() {
	format.Register(format.Format{Name: "macrocell", Detect: detectMacrocell})
	format.Register(format.Format{Name: "rle", Detect: detectRLE})
}

func detectMacrocell(prefix []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(prefix, " \t\r\n"), []byte("[M2]"))
}

func detectRLE(prefix []byte) bool {
	for _, line := range strings.Split(string(prefix), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.HasPrefix(line, "x")
	}
	return false
}

// Load reads a pattern in any registered format, sniffing the format from
// the content.
func Load(r io.Reader) (*Universe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read pattern")
	}
	name, ok := format.Detect(data)
	if !ok {
		return nil, &pattern.ParseError{Line: 1, Reason: "unrecognized pattern format"}
	}
	switch name {
	case "macrocell":
		return DecodeMacrocell(bytes.NewReader(data))
	default:
		return FromRLE(bytes.NewReader(data))
	}
}

// LoadFile reads a pattern file in any registered format.
func LoadFile(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open pattern %s", path)
	}
	defer f.Close()
	u, err := Load(f)
	return u, errors.Wrapf(err, "load %s", path)
}

// WriteRLE serializes the universe's bounding box as an RLE pattern whose
// top-left corner is the box minimum.
func (u *Universe) WriteRLE(w io.Writer) error {
	p := &pattern.Pattern{}
	if box, ok := u.BoundingBox(); ok {
		p.Width = box.XMax - box.XMin + 1
		p.Height = box.YMax - box.YMin + 1
		u.ForEachLive(box, func(x, y int64) {
			p.Cells = append(p.Cells, pattern.Cell{X: x - box.XMin, Y: y - box.YMin})
		})
	}
	return pattern.EncodeRLE(w, p)
}
