package render

import (
	"hashlife/internal/core"
	"hashlife/pkg/life"
)

// Viewport maps a window of universe cells onto a fixed-size cell grid for
// painting. Zoom coarsens the view: each grid cell covers a 2^Zoom block of
// universe cells and lights up when any cell in the block is live.
type Viewport struct {
	X, Y int64 // universe coordinate of the top-left grid cell
	Zoom uint8
}

// CellSpan returns the universe-cell side length of one grid cell.
func (v Viewport) CellSpan() int64 { return int64(1) << v.Zoom }

// Pan moves the viewport by (dx, dy) grid cells.
func (v *Viewport) Pan(dx, dy int64) {
	v.X += dx << v.Zoom
	v.Y += dy << v.Zoom
}

// Fill projects the viewport's window of u into g, overwriting every cell.
func (v Viewport) Fill(u *life.Universe, g *core.ByteGrid) {
	g.Clear()
	span := v.CellSpan()
	clip := life.BBox{
		XMin: v.X,
		YMin: v.Y,
		XMax: v.X + int64(g.W)*span - 1,
		YMax: v.Y + int64(g.H)*span - 1,
	}
	cells := g.Cells()
	u.ForEachLive(clip, func(x, y int64) {
		cells[g.Index(int((x-v.X)>>v.Zoom), int((y-v.Y)>>v.Zoom))] = 1
	})
}
