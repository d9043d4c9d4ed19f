package desktop

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/logjam/desktop/scene"
	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/view"
)

const (
	headerHeight = 24
	footerHeight = 20
)

// Options configures the window
type Options struct {
	Title    string
	CellSize int
	// Largest viewport in cells; bigger boards scroll with the camera
	MaxCols int
	MaxRows int
}

// DefaultOptions returns a 40px grid that shows up to 24x16 cells
func DefaultOptions() Options {
	return Options{
		Title:    "Logjam",
		CellSize: 40,
		MaxCols:  24,
		MaxRows:  16,
	}
}

var moveKeys = []struct {
	keys []ebiten.Key
	dir  engine.Direction
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, engine.Up},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, engine.Down},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, engine.Left},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, engine.Right},
}

// Game is the ebiten game drawing one Source
type Game struct {
	ctx    context.Context
	source scene.Source
	opts   Options

	camera *view.Camera
	colors scene.ColorCache
	frame  *view.Frame

	viewW, viewH int
	snapped      bool
}

// NewGame creates a window game for source. It stops when ctx is cancelled
// or the player presses Escape.
func NewGame(ctx context.Context, source scene.Source, opts Options) *Game {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultOptions().CellSize
	}
	if opts.MaxCols <= 0 || opts.MaxRows <= 0 {
		opts.MaxCols, opts.MaxRows = DefaultOptions().MaxCols, DefaultOptions().MaxRows
	}
	return &Game{
		ctx:    ctx,
		source: source,
		opts:   opts,
		camera: view.NewCamera(float64(opts.MaxCols), float64(opts.MaxRows)),
		colors: scene.ColorCache{},
		viewW:  opts.MaxCols,
		viewH:  opts.MaxRows,
	}
}

// Update handles input and advances animations by one tick
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, mk := range moveKeys {
		for _, k := range mk.keys {
			if inpututil.IsKeyJustPressed(k) {
				g.source.Move(mk.dir)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.source.Reset()
		g.snapped = false
	}

	dt := 1000 / float64(ebiten.TPS())
	g.source.Tick(dt)

	frame := g.source.Frame()
	if frame == nil {
		return nil
	}
	g.frame = frame

	w, h := scene.ViewSize(frame.Width, frame.Height, g.opts.MaxCols, g.opts.MaxRows)
	if w != g.viewW || h != g.viewH {
		g.viewW, g.viewH = w, h
		g.camera.Resize(float64(w), float64(h))
		g.snapped = false
	}

	focus := engine.Vec{X: frame.Player.X, Y: frame.Player.Y}
	if !g.snapped {
		g.camera.SnapTo(focus, frame.Width, frame.Height)
		g.snapped = true
	} else {
		g.camera.Follow(focus, frame.Width, frame.Height)
	}
	g.camera.Update(dt)
	return nil
}

// Draw renders the current frame
func (g *Game) Draw(screen *ebiten.Image) {
	frame := g.frame
	if frame == nil {
		ebitenutil.DebugPrint(screen, "Waiting for the board...")
		return
	}

	screen.Fill(g.colors.Get(frame.Palette.Water))

	proj := scene.Projection{
		Camera:   g.camera.Position(),
		CellSize: float64(g.opts.CellSize),
		OffsetY:  headerHeight,
	}
	vw, vh := float64(g.viewW), float64(g.viewH)

	for y, row := range frame.Cells {
		for x, raw := range row {
			if !proj.Visible(x, y, vw, vh) {
				continue
			}
			g.drawCell(screen, proj, x, y, engine.Cell(raw), frame.Palette)
		}
	}

	for _, l := range frame.Logs {
		if !proj.Visible(int(l.X+0.5), int(l.Y+0.5), vw, vh) {
			continue
		}
		clr := g.colors.Get(l.Color)
		if rect, circle, bar := proj.Log(l.X, l.Y, l.Orientation); bar {
			fillRect(screen, rect, clr)
		} else {
			fillCircle(screen, circle, clr)
		}
	}

	fillRect(screen, proj.Player(frame.Player.X, frame.Player.Y), g.colors.Get(frame.Player.Color))

	g.drawHeader(screen, frame)
}

func (g *Game) drawCell(screen *ebiten.Image, proj scene.Projection, x, y int, cell engine.Cell, palette view.Palette) {
	fx, fy := float64(x), float64(y)
	if cell.Has(engine.Land) {
		fillRect(screen, proj.Tile(fx, fy), g.colors.Get(palette.Land))
	}
	if cell.Has(engine.Stump) {
		fillCircle(screen, proj.Stump(fx, fy), g.colors.Get(palette.Stump))
	}
	if cell.Has(engine.Rock) {
		fillRect(screen, proj.Rock(fx, fy), g.colors.Get(palette.Rock))
	}
}

func (g *Game) drawHeader(screen *ebiten.Image, frame *view.Frame) {
	w := float32(g.viewW * g.opts.CellSize)
	vector.FillRect(screen, 0, 0, w, headerHeight, color.RGBA{0x20, 0x20, 0x20, 0xff}, false)

	status := fmt.Sprintf("%s  (%d,%d)  logs: %d", frame.Level, frame.Player.Cell.X, frame.Player.Cell.Y, len(frame.Logs))
	if frame.Animating {
		status += "  ..."
	}
	ebitenutil.DebugPrintAt(screen, status, 6, 4)

	_, h := g.Layout(0, 0)
	ebitenutil.DebugPrintAt(screen, "Arrows/WASD: move | R: reset | ESC: quit", 6, h-footerHeight+2)
}

// Layout sizes the screen to the viewport plus header and footer
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewW * g.opts.CellSize, g.viewH*g.opts.CellSize + headerHeight + footerHeight
}

func fillRect(screen *ebiten.Image, r scene.Rect, clr color.Color) {
	vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func fillCircle(screen *ebiten.Image, c scene.Circle, clr color.Color) {
	vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(c.R), clr, true)
}

// Run opens the window and blocks until it is closed
func Run(ctx context.Context, source scene.Source, opts Options) error {
	game := NewGame(ctx, source, opts)

	// size the window for the first frame when one is already available
	if frame := source.Frame(); frame != nil {
		game.viewW, game.viewH = scene.ViewSize(frame.Width, frame.Height, game.opts.MaxCols, game.opts.MaxRows)
		game.camera.Resize(float64(game.viewW), float64(game.viewH))
	}

	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(game.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.WithFields(log.Fields{"width": w, "height": h}).Debug("opening window")
	return ebiten.RunGame(game)
}
