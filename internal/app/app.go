//go:build ebiten

package app

import (
	"fmt"
	"image/color"

	"hashlife/internal/core"
	"hashlife/internal/render"
	"hashlife/pkg/life"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a Life universe to the ebiten.Game interface: a pannable,
// zoomable viewport over the quadtree with pause and single-step control.
type Game struct {
	build   func() (*life.Universe, error)
	u       *life.Universe
	view    render.Viewport
	grid    *core.ByteGrid
	painter *render.GridPainter
	timer   *core.FixedStep

	onColor  color.Color
	offColor color.Color

	scale    int
	paused   bool
	tickOnce bool
	err      error
}

// New constructs a Game showing the universe produced by build, which is
// re-invoked when the user resets.
func New(build func() (*life.Universe, error), cfg *Config) (*Game, error) {
	u, err := build()
	if err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	g := &Game{
		build:    build,
		u:        u,
		grid:     core.NewByteGrid(cfg.W, cfg.H),
		painter:  render.NewGridPainter(cfg.W, cfg.H),
		timer:    core.NewFixedStep(cfg.TPS),
		onColor:  color.White,
		offColor: color.Black,
		scale:    scale,
		paused:   true,
	}
	g.view.Zoom = uint8(cfg.Zoom)
	g.centerView()
	return g, nil
}

// centerView pans the viewport so the pattern's bounding box is centered.
func (g *Game) centerView() {
	span := g.view.CellSpan()
	cx, cy := int64(0), int64(0)
	if box, ok := g.u.BoundingBox(); ok {
		cx = (box.XMin + box.XMax) / 2
		cy = (box.YMin + box.YMax) / 2
	}
	g.view.X = cx - int64(g.grid.W)/2*span
	g.view.Y = cy - int64(g.grid.H)/2*span
}

// Update handles per-frame input and advances the universe.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		u, err := g.build()
		if err != nil {
			return err
		}
		g.u = u
		g.paused = true
		g.centerView()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.centerView()
	}

	pan := int64(8)
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.view.Pan(-pan, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.view.Pan(pan, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.view.Pan(0, -pan)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.view.Pan(0, pan)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.view.Zoom < 32 {
		g.view.Zoom++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) && g.view.Zoom > 0 {
		g.view.Zoom--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) && g.u.StepLog2() < life.MaxStepLog {
		g.err = g.u.SetStepLog2(g.u.StepLog2() + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) && g.u.StepLog2() > 0 {
		g.err = g.u.SetStepLog2(g.u.StepLog2() - 1)
	}
	if g.err != nil {
		return g.err
	}

	if (!g.paused && g.timer.ShouldStep()) || g.tickOnce {
		if err := g.u.Step(); err != nil {
			g.err = err
			return err
		}
		g.tickOnce = false
	}

	state := "running"
	if g.paused {
		state = "paused"
	}
	ebiten.SetWindowTitle(fmt.Sprintf("life-view — gen %s  pop %d  step 2^%d  %s",
		g.u.Generation(), g.u.Population(), g.u.StepLog2(), state))
	return nil
}

// Draw renders the current viewport.
func (g *Game) Draw(screen *ebiten.Image) {
	g.view.Fill(g.u, g.grid)
	g.painter.Blit(screen, g.grid.Cells(), g.onColor, g.offColor, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.grid.W * g.scale, g.grid.H * g.scale
}
