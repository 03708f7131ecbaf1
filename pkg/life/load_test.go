package life

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hashlife/pkg/pattern"
)

func TestLoadSniffsRLE(t *testing.T) {
	src := "#C a blinker\nx = 3, y = 1, rule = B3/S23\n3o!\n"
	u, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pop := u.Population(); pop != 3 {
		t.Fatalf("population = %d, want 3", pop)
	}
	if !u.GetCell(0, 0) || !u.GetCell(2, 0) {
		t.Fatal("blinker cells missing after load")
	}
}

func TestLoadSniffsMacrocell(t *testing.T) {
	u, err := Load(strings.NewReader(smallMC))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pop := u.Population(); pop != 10 {
		t.Fatalf("population = %d, want 10", pop)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(strings.NewReader("this is not a pattern\n"))
	var perr *pattern.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glider.rle")
	src := "x = 3, y = 3\nbob$2bo$3o!\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if pop := u.Population(); pop != 5 {
		t.Fatalf("population = %d, want 5", pop)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.rle")); err == nil {
		t.Fatal("loading a missing file should fail")
	}
}

func TestWriteRLERoundTrip(t *testing.T) {
	u := New()
	for c := range gliderCells(-5, 7) {
		mustSet(t, u, c)
	}

	var sb strings.Builder
	if err := u.WriteRLE(&sb); err != nil {
		t.Fatalf("WriteRLE: %v", err)
	}

	back, err := FromRLE(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("FromRLE: %v", err)
	}
	// The writer normalizes to the bounding box, so the pattern reappears
	// with its top-left corner at the origin.
	want := gliderCells(0, 0)
	got := collect(back)
	if len(got) != len(want) {
		t.Fatalf("got %d cells, want %d", len(got), len(want))
	}
	for c := range want {
		if !got[c] {
			t.Fatalf("cell (%d,%d) missing after round trip", c[0], c[1])
		}
	}
}
