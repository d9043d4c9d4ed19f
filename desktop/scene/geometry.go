package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/wricardo/logjam/game/engine"
)

// Rect is a screen rectangle in pixels
type Rect struct {
	X, Y, W, H float64
}

// Circle is a screen circle in pixels
type Circle struct {
	X, Y, R float64
}

// Projection maps board coordinates to pixels for a camera position
type Projection struct {
	Camera   engine.Vec
	CellSize float64
	OffsetY  float64
}

// Point returns the top-left pixel of board coordinate (x, y)
func (p Projection) Point(x, y float64) (float64, float64) {
	return (x - p.Camera.X) * p.CellSize, (y-p.Camera.Y)*p.CellSize + p.OffsetY
}

// Tile is the full cell at (x, y)
func (p Projection) Tile(x, y float64) Rect {
	sx, sy := p.Point(x, y)
	return Rect{X: sx, Y: sy, W: p.CellSize, H: p.CellSize}
}

// Stump is a circle a third of the cell across the center
func (p Projection) Stump(x, y float64) Circle {
	sx, sy := p.Point(x, y)
	s := p.CellSize
	return Circle{X: sx + s/2, Y: sy + s/2, R: s / 3}
}

// Rock fills the cell inset by a sixth on every side
func (p Projection) Rock(x, y float64) Rect {
	sx, sy := p.Point(x, y)
	s := p.CellSize
	return Rect{X: sx + s/6, Y: sy + s/6, W: s * 2 / 3, H: s * 2 / 3}
}

// Player is a centered square a third of the cell wide
func (p Projection) Player(x, y float64) Rect {
	sx, sy := p.Point(x, y)
	s := p.CellSize
	return Rect{X: sx + s/3, Y: sy + s/3, W: s / 3, H: s / 3}
}

// Log returns the shape of a log: a small circle when round, otherwise a
// bar two thirds long along its axis.
func (p Projection) Log(x, y float64, o engine.Orientation) (Rect, Circle, bool) {
	sx, sy := p.Point(x, y)
	s := p.CellSize
	switch o {
	case engine.Horizontal:
		return Rect{X: sx + s/6, Y: sy + s/3, W: s * 2 / 3, H: s / 3}, Circle{}, true
	case engine.Vertical:
		return Rect{X: sx + s/3, Y: sy + s/6, W: s / 3, H: s * 2 / 3}, Circle{}, true
	}
	return Rect{}, Circle{X: sx + s/2, Y: sy + s/2, R: s / 6}, false
}

// Visible reports whether cell (x, y) overlaps a viewport of w x h cells
func (p Projection) Visible(x, y int, w, h float64) bool {
	fx, fy := float64(x), float64(y)
	return fx+1 > p.Camera.X && fx < p.Camera.X+w && fy+1 > p.Camera.Y && fy < p.Camera.Y+h
}

// ViewSize caps the board size to the largest viewport the window allows
func ViewSize(boardW, boardH, maxW, maxH int) (int, int) {
	return min(boardW, maxW), min(boardH, maxH)
}

var namedColors = map[string]color.RGBA{
	"white": {0xff, 0xff, 0xff, 0xff},
	"black": {0x00, 0x00, 0x00, 0xff},
	"gray":  {0x80, 0x80, 0x80, 0xff},
	"grey":  {0x80, 0x80, 0x80, 0xff},
	"brown": {0xa5, 0x2a, 0x2a, 0xff},
	"blue":  {0x00, 0x00, 0xff, 0xff},
	"green": {0x00, 0x80, 0x00, 0xff},
}

// ParseColor reads "#rgb", "#rrggbb" or one of a few CSS color names
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// ColorCache remembers parsed colors. Unparseable names come back magenta.
type ColorCache map[string]color.RGBA

func (c ColorCache) Get(s string) color.RGBA {
	if v, ok := c[s]; ok {
		return v
	}
	v, err := ParseColor(s)
	if err != nil {
		v = color.RGBA{0xff, 0x00, 0xff, 0xff}
	}
	c[s] = v
	return v
}
