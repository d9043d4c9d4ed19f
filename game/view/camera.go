package view

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/wricardo/logjam/game/engine"
)

// CameraEaseDuration is how long the camera takes to settle on a new focus, in
// milliseconds.
const CameraEaseDuration = 400

// Camera keeps the player near the middle of a viewport that may be smaller
// than the board. Positions are the board coordinates of the viewport's
// top-left corner, in cells.
type Camera struct {
	viewW, viewH float64
	pos          engine.Vec
	target       engine.Vec
	tx, ty       *gween.Tween
}

// NewCamera creates a camera for a viewport of viewW x viewH cells
func NewCamera(viewW, viewH float64) *Camera {
	return &Camera{viewW: viewW, viewH: viewH}
}

// Resize changes the viewport size. The next Follow picks it up.
func (c *Camera) Resize(viewW, viewH float64) {
	c.viewW, c.viewH = viewW, viewH
}

// Viewport returns the viewport size in cells
func (c *Camera) Viewport() (float64, float64) {
	return c.viewW, c.viewH
}

// Position returns the current top-left corner
func (c *Camera) Position() engine.Vec {
	return c.pos
}

// Target returns where the camera is easing to
func (c *Camera) Target() engine.Vec {
	return c.target
}

// Settled reports whether the camera has reached its target
func (c *Camera) Settled() bool {
	return c.tx == nil && c.ty == nil
}

// Focus computes the top-left corner that centers focus on a board of the
// given size. Boards smaller than the viewport are centered.
func (c *Camera) Focus(focus engine.Vec, boardW, boardH int) engine.Vec {
	return engine.Vec{
		X: clampAxis(focus.X+0.5-c.viewW/2, float64(boardW), c.viewW),
		Y: clampAxis(focus.Y+0.5-c.viewH/2, float64(boardH), c.viewH),
	}
}

// Follow starts easing toward the corner that centers focus. Calling it with
// an unchanged target leaves the running tween alone.
func (c *Camera) Follow(focus engine.Vec, boardW, boardH int) {
	target := c.Focus(focus, boardW, boardH)
	if target == c.target && !c.Settled() {
		return
	}
	if target == c.pos {
		c.target = target
		c.tx, c.ty = nil, nil
		return
	}
	c.target = target
	c.tx = gween.New(float32(c.pos.X), float32(target.X), CameraEaseDuration, ease.OutQuad)
	c.ty = gween.New(float32(c.pos.Y), float32(target.Y), CameraEaseDuration, ease.OutQuad)
}

// SnapTo jumps straight to the corner that centers focus
func (c *Camera) SnapTo(focus engine.Vec, boardW, boardH int) {
	c.pos = c.Focus(focus, boardW, boardH)
	c.target = c.pos
	c.tx, c.ty = nil, nil
}

// Update advances the easing by dt milliseconds and returns the new position
func (c *Camera) Update(dt float64) engine.Vec {
	if c.tx != nil {
		x, done := c.tx.Update(float32(dt))
		c.pos.X = float64(x)
		if done {
			c.pos.X = c.target.X
			c.tx = nil
		}
	}
	if c.ty != nil {
		y, done := c.ty.Update(float32(dt))
		c.pos.Y = float64(y)
		if done {
			c.pos.Y = c.target.Y
			c.ty = nil
		}
	}
	return c.pos
}

func clampAxis(v, board, view float64) float64 {
	if board <= view {
		return (board - view) / 2
	}
	if v < 0 {
		return 0
	}
	if v > board-view {
		return board - view
	}
	return v
}
