// Package format keeps a registry of recognizable pattern file formats.
// Decoders register a sniffer under a name; loaders ask the registry which
// format a byte prefix belongs to and dispatch on the name.
package format

// Format describes one registered pattern format.
type Format struct {
	Name   string
	Detect func(prefix []byte) bool
}

var formats []Format

// Register adds a format to the registry. Registration order is probe
// order, so more distinctive formats should register first.
func Register(f Format) {
	if f.Name == "" || f.Detect == nil {
		return
	}
	formats = append(formats, f)
}

// Detect returns the name of the first registered format recognizing the
// prefix.
func Detect(prefix []byte) (string, bool) {
	for _, f := range formats {
		if f.Detect(prefix) {
			return f.Name, true
		}
	}
	return "", false
}
